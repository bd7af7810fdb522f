package models

// RoomInfo, SFU management API'sinden dönen canlı oda özeti.
// Sadece bu subsystem'in ihtiyacı kadar alan taşır — SDK tipleri
// repository katmanında bu tipe çevrilir, üst katmanlar SDK görmez.
type RoomInfo struct {
	Name            string
	NumParticipants int
}

// ParticipantInfo, bir odadaki tek katılımcı.
type ParticipantInfo struct {
	Identity string
	Name     string
}
