package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/institute-attendance-go/internal/domain/punch"
)

// Aggregate is the effective login/logout of a day and its punch pairs.
type Aggregate struct {
	LogIn   *string
	LogOut  *string
	Punches []attendance.Punch
}

func (a Aggregate) HasPunches() bool {
	return len(a.Punches) > 0
}

// AggregateRecords merges the punches stored on the given rows. LogIn is the earliest
// punch-in and LogOut the latest punch-out. Pairs with neither side set are dropped,
// the rest keep their stored order. Rows without a punch list contribute their own
// log_in/log_out as one pair.
func AggregateRecords(records []attendance.Record) (Aggregate, error) {
	var (
		agg        Aggregate
		earliestIn time.Duration
		latestOut  time.Duration
		haveIn     bool
		haveOut    bool
	)

	for _, rec := range records {
		pairs := rec.Punches
		if len(pairs) == 0 && (isSet(rec.LogIn) || isSet(rec.LogOut)) {
			pairs = []attendance.Punch{{In: rec.LogIn, Out: rec.LogOut}}
		}

		for _, p := range pairs {
			if !isSet(p.In) && !isSet(p.Out) {
				continue
			}

			var normalized attendance.Punch
			if isSet(p.In) {
				in, err := attendance.ParseClock(*p.In)
				if err != nil {
					return Aggregate{}, fmt.Errorf("punch in of %s: %w", rec.Day(), err)
				}
				normalized.In = clockPtr(in)
				if !haveIn || in < earliestIn {
					earliestIn, haveIn = in, true
				}
			}
			if isSet(p.Out) {
				out, err := attendance.ParseClock(*p.Out)
				if err != nil {
					return Aggregate{}, fmt.Errorf("punch out of %s: %w", rec.Day(), err)
				}
				normalized.Out = clockPtr(out)
				if !haveOut || out > latestOut {
					latestOut, haveOut = out, true
				}
			}
			agg.Punches = append(agg.Punches, normalized)
		}
	}

	if haveIn {
		agg.LogIn = clockPtr(earliestIn)
	}
	if haveOut {
		agg.LogOut = clockPtr(latestOut)
	}
	return agg, nil
}

// Pairing strategies reported by PairRawPunches.
const (
	PairedByDirection = "direction"
	PairedBySequence  = "sequence"
)

// DayPunches is one employee's paired device punches for one day.
type DayPunches struct {
	EmpCode  int
	Day      time.Time
	PairedBy string
	Worked   time.Duration
	Aggregate
}

type timedPair struct {
	in  *time.Time
	out *time.Time
}

// PairRawPunches groups raw punches by employee code and local day and pairs them.
// When every punch of a day carries a direction, an in opens a pair and an out closes it,
// so a forgotten punch-out only affects its own pair. Otherwise punches are sorted and
// paired by alternation: 1st in, 2nd out, 3rd in, and so on.
func PairRawPunches(raw []punch.RawPunch, loc *time.Location) []DayPunches {
	type groupKey struct {
		code int
		day  string
	}

	groups := make(map[groupKey][]punch.RawPunch)
	var keys []groupKey
	for _, p := range raw {
		k := groupKey{code: p.EmpCode, day: p.Time.In(loc).Format(attendance.DateLayout)}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], p)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].code != keys[j].code {
			return keys[i].code < keys[j].code
		}
		return keys[i].day < keys[j].day
	})

	result := make([]DayPunches, 0, len(keys))
	for _, k := range keys {
		events := groups[k]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Time.Before(events[j].Time)
		})

		var pairs []timedPair
		pairedBy := PairedBySequence
		if allDirected(events) {
			pairedBy = PairedByDirection
			pairs = pairByDirection(events)
		} else {
			pairs = pairBySequence(events)
		}

		day, _ := time.ParseInLocation(attendance.DateLayout, k.day, loc)
		result = append(result, buildDay(k.code, day, pairedBy, pairs, loc))
	}
	return result
}

func allDirected(events []punch.RawPunch) bool {
	for _, e := range events {
		if e.Direction == nil {
			return false
		}
		d := punch.Direction(strings.ToLower(string(*e.Direction)))
		if d != punch.DirectionIn && d != punch.DirectionOut {
			return false
		}
	}
	return len(events) > 0
}

func pairByDirection(events []punch.RawPunch) []timedPair {
	var (
		pairs []timedPair
		open  *time.Time
	)
	for _, e := range events {
		t := e.Time
		if punch.Direction(strings.ToLower(string(*e.Direction))) == punch.DirectionIn {
			if open != nil {
				pairs = append(pairs, timedPair{in: open})
			}
			open = &t
			continue
		}
		pairs = append(pairs, timedPair{in: open, out: &t})
		open = nil
	}
	if open != nil {
		pairs = append(pairs, timedPair{in: open})
	}
	return pairs
}

func pairBySequence(events []punch.RawPunch) []timedPair {
	pairs := make([]timedPair, 0, (len(events)+1)/2)
	for i := 0; i < len(events); i += 2 {
		in := events[i].Time
		p := timedPair{in: &in}
		if i+1 < len(events) {
			out := events[i+1].Time
			p.out = &out
		}
		pairs = append(pairs, p)
	}
	return pairs
}

func buildDay(code int, day time.Time, pairedBy string, pairs []timedPair, loc *time.Location) DayPunches {
	dp := DayPunches{EmpCode: code, Day: day, PairedBy: pairedBy}

	var first, last *time.Time
	for _, p := range pairs {
		var out attendance.Punch
		if p.in != nil {
			out.In = strPtr(attendance.ClockOf(p.in.In(loc)))
			if first == nil || p.in.Before(*first) {
				first = p.in
			}
		}
		if p.out != nil {
			out.Out = strPtr(attendance.ClockOf(p.out.In(loc)))
			if last == nil || p.out.After(*last) {
				last = p.out
			}
		}
		if p.in != nil && p.out != nil && p.out.After(*p.in) {
			dp.Worked += p.out.Sub(*p.in)
		}
		dp.Punches = append(dp.Punches, out)
	}

	if first != nil {
		dp.LogIn = strPtr(attendance.ClockOf(first.In(loc)))
	}
	if last != nil {
		dp.LogOut = strPtr(attendance.ClockOf(last.In(loc)))
	}
	return dp
}

func isSet(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func strPtr(s string) *string {
	return &s
}

func clockPtr(d time.Duration) *string {
	return strPtr(attendance.FormatClock(d))
}
