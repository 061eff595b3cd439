// Copyright 2025 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/scionproto/notary/pkg/private/serrors"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365 * day
)

var durationRegexp = regexp.MustCompile(`^([+-]?\d+)(\w*)$`)

// ParseDuration parses a duration string. In addition to the units supported
// by time.ParseDuration, it understands d (days), w (weeks) and y (years).
// Mixed units like "1d12h" are not supported for the extended units.
func ParseDuration(s string) (time.Duration, error) {
	match := durationRegexp.FindStringSubmatch(s)
	if match == nil {
		return time.ParseDuration(s)
	}
	count, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, serrors.Wrap("parsing duration value", err, "duration", s)
	}
	var unit time.Duration
	switch match[2] {
	case "d":
		unit = day
	case "w":
		unit = week
	case "y":
		unit = year
	case "":
		return 0, serrors.New("duration without unit", "duration", s)
	default:
		return time.ParseDuration(s)
	}
	return time.Duration(count) * unit, nil
}

// FmtDuration formats the duration with the largest extended unit that
// divides it evenly, falling back to the standard formatting.
func FmtDuration(d time.Duration) string {
	for _, u := range []struct {
		unit   time.Duration
		symbol string
	}{{year, "y"}, {week, "w"}, {day, "d"}} {
		if d != 0 && d%u.unit == 0 {
			return fmt.Sprintf("%d%s", d/u.unit, u.symbol)
		}
	}
	return d.String()
}
