// Package sources scrapes startup log files for component begin/end lines and
// turns them into raw events.
package sources

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// Names of the regular expression groups a source pattern uses.
const (
	groupLabel  = "label"
	groupAction = "action"
	groupTime   = "time"
)

// Layouts that can be referred to by name in a source definition.  "unix" is
// a (possibly fractional) number of seconds since the epoch.
var namedLayouts = map[string]string{
	"ANSIC":       time.ANSIC,
	"UnixDate":    time.UnixDate,
	"RFC822":      time.RFC822,
	"RFC1123":     time.RFC1123,
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
	"DateTime":    time.DateTime,
	"StampMilli":  time.StampMilli,
	"unix":        "unix",
}

// Source describes one log to scrape.
type Source struct {
	Name string `yaml:"name"`
	// Path is the log file to read; exactly one of Path and Command is set.
	Path string `yaml:"path"`
	// Command is run and its standard output read as the log.
	Command []string `yaml:"command"`
	// Pattern must have "label" and "time" named groups, and an "action"
	// group unless the source only has instants.
	Pattern    string `yaml:"pattern"`
	TimeLayout string `yaml:"time-layout"`
	// Location is used for timestamps without a zone; defaults to UTC.
	Location string `yaml:"location"`
	// Begin and End are the values of the action group marking the start and
	// the end of a component.  If both are empty, every matching line is an
	// instant event.
	Begin  string `yaml:"begin"`
	End    string `yaml:"end"`
	Kind   string `yaml:"kind"`
	Thread string `yaml:"thread"`
	// Failures of optional sources are reported but do not abort collection.
	Optional bool `yaml:"optional"`

	matcher  *regexp.Regexp
	layout   string
	location *time.Location
}

type Config struct {
	Sources []*Source `yaml:"sources"`
}

// LoadConfig reads and validates a sources file.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := &Config{}
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("error decoding sources file %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}
	return config, nil
}

// Validate checks every source and prepares it for parsing.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errors.New("no sources defined")
	}
	names := make(map[string]bool)
	for i, source := range c.Sources {
		if source.Name == "" {
			return fmt.Errorf("source %d has no name", i)
		}
		if names[source.Name] {
			return fmt.Errorf("duplicate source %q", source.Name)
		}
		names[source.Name] = true
		if err := source.compile(); err != nil {
			return fmt.Errorf("source %q: %w", source.Name, err)
		}
	}
	return nil
}

func (s *Source) compile() error {
	if (s.Path == "") == (len(s.Command) == 0) {
		return errors.New("exactly one of path and command must be set")
	}
	if (s.Begin == "") != (s.End == "") {
		return errors.New("begin and end actions are required together")
	}
	if s.Begin != "" && s.Begin == s.End {
		return fmt.Errorf("begin and end actions are both %q", s.Begin)
	}

	matcher, err := regexp.Compile(s.Pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	groups := []string{groupLabel, groupTime}
	if !s.instants() {
		groups = append(groups, groupAction)
	}
	for _, group := range groups {
		if matcher.SubexpIndex(group) < 0 {
			return fmt.Errorf("pattern is missing the %q group", group)
		}
	}
	s.matcher = matcher

	s.layout = time.RFC3339
	if s.TimeLayout != "" {
		s.layout = s.TimeLayout
		if named, ok := namedLayouts[s.TimeLayout]; ok {
			s.layout = named
		}
	}

	s.location = time.UTC
	if s.Location != "" {
		if s.location, err = time.LoadLocation(s.Location); err != nil {
			return fmt.Errorf("invalid location: %w", err)
		}
	}

	if s.Kind == "" {
		s.Kind = model.DefaultKind
	}
	if s.Thread == "" {
		s.Thread = s.Name
	}
	return nil
}

// instants reports whether the source has no begin/end actions.
func (s *Source) instants() bool {
	return s.Begin == "" && s.End == ""
}
