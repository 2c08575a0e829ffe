package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseShots reads a comma separated list of angle:power pairs, for example
// "-35:16,-20:12". An empty string yields no shots.
func ParseShots(s string) ([]Shot, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var shots []Shot
	for _, part := range strings.Split(s, ",") {
		angle, power, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			return nil, fmt.Errorf("game: shot %q: want angle:power", part)
		}
		a, err := strconv.ParseFloat(angle, 64)
		if err != nil {
			return nil, fmt.Errorf("game: shot %q: angle: %w", part, err)
		}
		p, err := strconv.ParseFloat(power, 64)
		if err != nil {
			return nil, fmt.Errorf("game: shot %q: power: %w", part, err)
		}
		if p < 0 {
			return nil, fmt.Errorf("game: shot %q: negative power", part)
		}
		shots = append(shots, Shot{Angle: a, Power: p})
	}
	return shots, nil
}
