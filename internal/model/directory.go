package model

import "time"

// DefaultTimeZone 未配置时区时使用的默认时区
const DefaultTimeZone = "America/Phoenix"

// Tool 设备目录条目
type Tool struct {
	ID            int64  `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	SecondaryName string `json:"secondaryName,omitempty" yaml:"secondary_name"`
	LocationName  string `json:"locationName,omitempty" yaml:"location"`
}

// User 用户目录条目（技术员 / 导入人）
type User struct {
	ID     int64  `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email,omitempty" yaml:"email"`
	Active bool   `json:"active" yaml:"active"`
}

// Location 导入上下文所在站点
type Location struct {
	Name     string `json:"name"`
	TimeZone string `json:"timeZone"`
}

// Zone 返回站点时区，无法加载时依次回退到默认时区和 UTC
func (l Location) Zone() *time.Location {
	for _, name := range []string{l.TimeZone, DefaultTimeZone} {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Today 站点时区下的当天日期（零点）
func (l Location) Today(now time.Time) time.Time {
	t := now.In(l.Zone())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
