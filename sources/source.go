package sources

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// Lines longer than this abort the source.
const maxLineSize = 10 * 1024 * 1024

// Open returns the log contents of the source.  The caller must close it.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	if len(s.Command) > 0 {
		stdout, err := Run(ctx, s.Command...)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(stdout), nil
	}
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", s.Path, err)
	}
	return file, nil
}

// Parse scans the log for begin and end lines, or for instants if the source
// has no actions.  Lines that do not match the pattern, or whose action is
// neither begin nor end, are skipped.  The events returned are not yet paired.
func (s *Source) Parse(ctx context.Context, r io.Reader) ([]*model.Event, error) {
	labelIndex := s.matcher.SubexpIndex(groupLabel)
	actionIndex := s.matcher.SubexpIndex(groupAction)
	timeIndex := s.matcher.SubexpIndex(groupTime)

	var results []*model.Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		match := s.matcher.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		phase := model.EventPhaseInstant
		if !s.instants() {
			switch match[actionIndex] {
			case s.Begin:
				phase = model.EventPhaseBegin
			case s.End:
				phase = model.EventPhaseEnd
			default:
				continue
			}
		}
		timeStamp, err := s.parseTime(match[timeIndex])
		if err != nil {
			return nil, fmt.Errorf("error parsing time: %q: %w", scanner.Text(), err)
		}
		results = append(results, &model.Event{
			Kind:   s.Kind,
			Thread: s.Thread,
			Phase:  phase,
			Start:  timeStamp,
			Fields: map[string]string{
				model.DefaultLabelField: match[labelIndex],
				"source":                s.Name,
			},
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", s.Name, err)
	}
	return results, nil
}

func (s *Source) parseTime(value string) (time.Time, error) {
	if s.layout == "unix" {
		seconds, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(seconds)
		return time.Unix(int64(whole), int64(math.Round(frac*float64(time.Second)))).UTC(), nil
	}
	timeStamp, err := time.ParseInLocation(s.layout, value, s.location)
	if err != nil {
		return time.Time{}, err
	}
	return timeStamp.UTC(), nil
}
