package models

import "time"

// DeviceSession представляет один браузер или устройство,
// с которого пользователь вошел в систему.
type DeviceSession struct {
	ID           int
	UserUID      string
	DeviceType   string // desktop, mobile, tablet
	Browser      string
	OS           string
	IP           string // Публичный IP или "Unavailable"
	Location     string // Город/страна или "Unavailable"
	LoggedInAt   time.Time
	LastActiveAt time.Time
	IsCurrent    bool
}

// DeviceInfo результат классификации user-agent строки.
type DeviceInfo struct {
	DeviceType string
	Browser    string
	OS         string
}

// GeoInfo результат определения публичного IP и геолокации.
type GeoInfo struct {
	IP       string
	Location string
}
