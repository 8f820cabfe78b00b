package prefabs

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, origin, err := Open(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	watchLog.Debugw("prefab read", "file", filename, "from", origin.String())

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Duration is a yaml duration. It accepts Go duration strings ("500ms",
// "1.5s") or a bare integer number of milliseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar")
	}
	if ms, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type GateSpec struct {
	Title string `yaml:"title"`
	Hint  string `yaml:"hint"`
}

// PageSpec describes the whole landing page. Entities are built when the page
// loads; Player names the prefab mounted once the gate is dismissed.
type PageSpec struct {
	Title    string            `yaml:"title"`
	Gate     GateSpec          `yaml:"gate"`
	Player   string            `yaml:"player"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

func LoadPageSpec(filename string) (*PageSpec, error) {
	spec, err := LoadSpec[PageSpec](filename)
	if err != nil {
		return nil, err
	}
	if len(spec.Entities) == 0 {
		return nil, fmt.Errorf("prefabs: %s: page defines no entities", filename)
	}
	return &spec, nil
}

type TrackSpec struct {
	Title    string `yaml:"title"`
	Artist   string `yaml:"artist"`
	Duration string `yaml:"duration"`
	Src      string `yaml:"src"`
}

type TracksSpec struct {
	Tracks []TrackSpec `yaml:"tracks"`
}

func LoadTracksSpec(filename string) (*TracksSpec, error) {
	spec, err := LoadSpec[TracksSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// TimelineStepSpec is one row of the intro table. Which of Flag, Phase or
// Signal is read depends on Action (set_flag, set_phase or emit).
type TimelineStepSpec struct {
	Delay  Duration `yaml:"delay"`
	Action string   `yaml:"action"`
	Flag   string   `yaml:"flag"`
	Value  bool     `yaml:"value"`
	Phase  string   `yaml:"phase"`
	Signal string   `yaml:"signal"`
}

type TimelineSpec struct {
	Steps []TimelineStepSpec `yaml:"steps"`
}

func LoadTimelineSpec(filename string) (*TimelineSpec, error) {
	spec, err := LoadSpec[TimelineSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
