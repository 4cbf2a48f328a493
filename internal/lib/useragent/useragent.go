// Package useragent классифицирует user-agent строку браузера по типу
// устройства, браузеру и операционной системе. Классификатор чистый:
// никакого ввода-вывода, только сопоставление подстрок, где более
// специфичное совпадение побеждает более общее.
package useragent

import "strings"

// Device types.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// Unknown значение для нераспознанного браузера или ОС.
const Unknown = "Unknown"

// Classify разбирает user-agent строку и возвращает тип устройства,
// браузер и ОС. Пустая строка классифицируется как desktop/Unknown/Unknown.
func Classify(ua string) (deviceType, browser, os string) {
	lower := strings.ToLower(ua)
	return classifyDevice(lower), classifyBrowser(lower), classifyOS(lower)
}

func classifyDevice(ua string) string {
	switch {
	case strings.Contains(ua, "ipad"):
		return DeviceTablet
	case strings.Contains(ua, "tablet"):
		return DeviceTablet
	// iPhone/Android раньше общего "mobile": специфичное совпадение важнее
	case strings.Contains(ua, "iphone"),
		strings.Contains(ua, "android") && strings.Contains(ua, "mobile"),
		strings.Contains(ua, "mobile"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

func classifyBrowser(ua string) string {
	switch {
	// Edge и Opera содержат "chrome", поэтому проверяются первыми
	case strings.Contains(ua, "edg/"), strings.Contains(ua, "edge"):
		return "Edge"
	case strings.Contains(ua, "opr/"), strings.Contains(ua, "opera"):
		return "Opera"
	case strings.Contains(ua, "firefox"):
		return "Firefox"
	case strings.Contains(ua, "chrome"):
		return "Chrome"
	// Safari объявляется почти всеми, проверяется последним
	case strings.Contains(ua, "safari"):
		return "Safari"
	default:
		return Unknown
	}
}

func classifyOS(ua string) string {
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"):
		return "iOS"
	case strings.Contains(ua, "android"):
		return "Android"
	case strings.Contains(ua, "windows"):
		return "Windows"
	case strings.Contains(ua, "mac os x"), strings.Contains(ua, "macintosh"):
		return "macOS"
	case strings.Contains(ua, "linux"):
		return "Linux"
	default:
		return Unknown
	}
}
