package prefabs

import "gopkg.in/yaml.v3"

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// IntroComponentSpec points at a timeline prefab. An empty Timeline uses the
// built-in table.
type IntroComponentSpec struct {
	Timeline string `yaml:"timeline"`
}

type ProfileComponentSpec struct {
	Name   string `yaml:"name"`
	Handle string `yaml:"handle"`
	Bio    string `yaml:"bio"`
	Avatar string `yaml:"avatar"`
}

// StatComponentSpec is one profile counter. Its reveal starts Index*Stagger
// after the entity's own reveal delay.
type StatComponentSpec struct {
	Index   int      `yaml:"index"`
	Value   string   `yaml:"value"`
	Label   string   `yaml:"label"`
	Stagger Duration `yaml:"stagger"`
}

type SocialLinkSpec struct {
	Name     string `yaml:"name"`
	Href     string `yaml:"href"`
	Handle   string `yaml:"handle"`
	Bio      string `yaml:"bio"`
	Platform string `yaml:"platform"`
}

type SocialListComponentSpec struct {
	Links       []SocialLinkSpec `yaml:"links"`
	ItemStagger Duration         `yaml:"item_stagger"`
}

type RevealComponentSpec struct {
	Triggers      []string `yaml:"triggers"`
	Delay         Duration `yaml:"delay"`
	Sweep         Duration `yaml:"sweep"`
	BlinkToggles  int      `yaml:"blink_toggles"`
	BlinkInterval Duration `yaml:"blink_interval"`
	Then          string   `yaml:"then"`
}

type PlaybackComponentSpec struct {
	Volume   *float64 `yaml:"volume"`
	AutoPlay bool     `yaml:"auto_play"`
}

// TrackQueueComponentSpec lists tracks inline or by prefab file. Inline
// tracks win when both are set.
type TrackQueueComponentSpec struct {
	File   string      `yaml:"file"`
	Tracks []TrackSpec `yaml:"tracks"`
	Index  int         `yaml:"index"`
}

type TrackSweepComponentSpec struct {
	Duration Duration `yaml:"duration"`
}
