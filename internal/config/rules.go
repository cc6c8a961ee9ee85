package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML overlay for attendance rules. Omitted keys keep their current value.
type rulesFile struct {
	DefaultStart                 *string `yaml:"default_start"`
	DefaultEnd                   *string `yaml:"default_end"`
	LateMinutes                  *int    `yaml:"late_minutes"`
	MuchLateMinutes              *int    `yaml:"much_late_minutes"`
	EarlyDepartureHalfDayMinutes *int    `yaml:"early_departure_half_day_minutes"`
	RegularAbsenteeThreshold     *int    `yaml:"regular_absentee_threshold"`
	SundayExcludedCodes          *[]int  `yaml:"sunday_excluded_codes"`
}

// LoadRules applies the YAML file at path on top of base.
func LoadRules(path string, base attendance.Policy) (attendance.Policy, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("failed to read attendance rules %s: %w", path, err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(buf, &rf); err != nil {
		return attendance.Policy{}, fmt.Errorf("failed to parse attendance rules %s: %w", path, err)
	}

	p := base
	if rf.DefaultStart != nil {
		p.DefaultStart = *rf.DefaultStart
	}
	if rf.DefaultEnd != nil {
		p.DefaultEnd = *rf.DefaultEnd
	}
	if rf.LateMinutes != nil {
		p.LateMinutes = *rf.LateMinutes
	}
	if rf.MuchLateMinutes != nil {
		p.MuchLateMinutes = *rf.MuchLateMinutes
	}
	if rf.EarlyDepartureHalfDayMinutes != nil {
		p.EarlyDepartureHalfDayMinutes = *rf.EarlyDepartureHalfDayMinutes
	}
	if rf.RegularAbsenteeThreshold != nil {
		p.RegularAbsenteeThreshold = *rf.RegularAbsenteeThreshold
	}
	if rf.SundayExcludedCodes != nil {
		p.SundayExcludedCodes = *rf.SundayExcludedCodes
	}
	return p, nil
}

func validatePolicy(p attendance.Policy) error {
	start, err := attendance.ParseClock(p.DefaultStart)
	if err != nil {
		return fmt.Errorf("invalid default_start: %w", err)
	}
	end, err := attendance.ParseClock(p.DefaultEnd)
	if err != nil {
		return fmt.Errorf("invalid default_end: %w", err)
	}
	if end <= start {
		return fmt.Errorf("default_end %s must be after default_start %s", p.DefaultEnd, p.DefaultStart)
	}
	if p.LateMinutes < 0 || p.MuchLateMinutes < p.LateMinutes {
		return fmt.Errorf("late thresholds must satisfy 0 <= late_minutes <= much_late_minutes")
	}
	if p.EarlyDepartureHalfDayMinutes <= 0 {
		return fmt.Errorf("early_departure_half_day_minutes must be positive")
	}
	if p.RegularAbsenteeThreshold < 0 {
		return fmt.Errorf("regular_absentee_threshold must not be negative")
	}
	return nil
}
