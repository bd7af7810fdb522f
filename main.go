// Package main, gamerscream backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (policy persistence)
//  3. Repository'leri oluştur (SQLite + LiveKit management API)
//  4. Rate limiter'ları oluştur (PIN ve admin AYRI instance'lar)
//  5. Service'leri oluştur
//  6. Handler'ları oluştur
//  7. Middleware'ları oluştur
//  8. HTTP router'ı kur, route'ları bağla
//  9. CORS yapılandır
// 10. HTTP Server'ı başlat
// 11. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/gamerscream/gamerscream/config"
	"github.com/gamerscream/gamerscream/database"
	"github.com/gamerscream/gamerscream/handlers"
	"github.com/gamerscream/gamerscream/middleware"
	"github.com/gamerscream/gamerscream/pkg/ratelimit"
	"github.com/gamerscream/gamerscream/repository"
	"github.com/gamerscream/gamerscream/services"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] gamerscream server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	// Migration'lar binary'ye embed edilir — deploy tek dosyadır,
	// yanına migrations/ dizini taşınmaz.
	db, err := database.New(cfg.Database.Path, database.Migrations())
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	policyRepo := repository.NewSQLitePolicyRepo(db.Conn)
	roomDirectory := repository.NewLiveKitRoomDirectory(cfg.LiveKit)

	// ─── 4. Rate Limiters ───
	// PIN ve admin limiter'ları AYRI instance'lardır: PIN brute-force
	// denemeleri admin'in deneme hakkını tüketemez (ve tersi).
	pinLimiter := ratelimit.New(cfg.Access.PinRateLimit, cfg.Access.PinRateWindow)
	defer pinLimiter.Close()

	adminLimiter := ratelimit.New(cfg.Admin.RateLimit, cfg.Admin.RateWindow)
	defer adminLimiter.Close()

	// ─── 5. Service Layer ───
	// PolicyService startup'ta persisted state'i yükler (yoksa env
	// varsayılanlarını seed eder) — bu yüzden hata dönebilir.
	policyService, err := services.NewPolicyService(context.Background(), policyRepo, cfg.Access)
	if err != nil {
		log.Fatalf("[main] failed to initialize policy service: %v", err)
	}

	authService := services.NewAuthService(policyService, pinLimiter, cfg.Access)
	channelService := services.NewChannelService(roomDirectory)
	voiceService := services.NewVoiceService(channelService, cfg.LiveKit)
	adminService := services.NewAdminService(cfg.Admin, adminLimiter, policyService, roomDirectory)

	// ─── 6. Handler Layer ───
	authHandler := handlers.NewAuthHandler(authService, pinLimiter)
	channelHandler := handlers.NewChannelHandler(channelService)
	voiceHandler := handlers.NewVoiceHandler(voiceService)
	adminHandler := handlers.NewAdminHandler(adminService, adminLimiter)

	// ─── 7. Middleware ───
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// ─── 8. HTTP Router ───
	mux := http.NewServeMux()

	// Public — PIN kapısının kendisi ve health check token gerektiremez.
	mux.HandleFunc("GET /api/health", authHandler.Health)
	mux.HandleFunc("POST /api/verify-app-pin", authHandler.VerifyAppPin)
	mux.HandleFunc("POST /api/verify-access-token", authHandler.VerifyAccessToken)

	// Protected — geçerli access token zorunlu (X-Access-Token header).
	mux.Handle("POST /api/token", authMiddleware.Require(
		http.HandlerFunc(voiceHandler.Token)))
	mux.Handle("GET /api/rooms", authMiddleware.Require(
		http.HandlerFunc(channelHandler.List)))
	mux.Handle("POST /api/channels", authMiddleware.Require(
		http.HandlerFunc(channelHandler.Create)))
	mux.Handle("POST /api/channels/verify-pin", authMiddleware.Require(
		http.HandlerFunc(channelHandler.VerifyPin)))

	// Admin — access token middleware'ından geçmez; yetki body'deki
	// admin secret'tır ve AdminService içinde doğrulanır.
	mux.HandleFunc("POST /api/admin/verify", adminHandler.Verify)
	mux.HandleFunc("POST /api/admin/change-pin", adminHandler.ChangePin)
	mux.HandleFunc("POST /api/admin/invalidate-tokens", adminHandler.InvalidateTokens)
	mux.HandleFunc("POST /api/admin/kick-all", adminHandler.KickAll)

	// ─── 9. CORS ───
	//
	// Desktop client (Electron) istekleri Origin header'sız gelir — rs/cors
	// bunları CORS dışı sayar ve olduğu gibi geçirir. Origin'li istekler
	// (dev server, tarayıcı) sadece localhost'tan kabul edilir.
	corsHandler := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "http://localhost") ||
				strings.HasPrefix(origin, "https://localhost") ||
				strings.HasPrefix(origin, "http://127.0.0.1")
		},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", middleware.AccessTokenHeader},
	})

	handler := corsHandler.Handler(middleware.BodyLimit(mux))

	// ─── 10. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 11. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
