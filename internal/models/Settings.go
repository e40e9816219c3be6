package models

import (
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)

const (
	PositionCursor = "cursor"
	PositionFixed  = "fixed"

	GroupingCombined    = "combined"
	GroupingCategorized = "categorized"

	ThemeDark  = "dark"
	ThemeLight = "light"
)

var (
	positions = []string{PositionCursor, PositionFixed}
	groupings = []string{GroupingCombined, GroupingCategorized}
	themes    = []string{ThemeDark, ThemeLight}
)

// Settings is passed through to the UI collaborator. Only the enum-valued keys
// are checked; zoom is stored exactly as given.
type Settings struct {
	Position            string  `json:"position" validate:"required|in:cursor,fixed"`
	Grouping            string  `json:"grouping" validate:"required|in:combined,categorized"`
	Zoom                float64 `json:"zoom"`
	Theme               string  `json:"theme" validate:"required|in:dark,light"`
	Language            *string `json:"language"`
	UseInternalShortcut bool    `json:"useInternalShortcut"`
}

func DefaultSettings() Settings {
	return Settings{
		Position: PositionCursor,
		Grouping: GroupingCategorized,
		Zoom:     100,
		Theme:    ThemeDark,
	}
}

// UnmarshalJSON starts from the defaults so that keys absent from older
// files keep a sane value.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	out := plain(DefaultSettings())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*s = Settings(out)
	return nil
}

func (s *Settings) clone() *Settings {
	c := *s
	if s.Language != nil {
		lang := *s.Language
		c.Language = &lang
	}
	return &c
}

// repair resets enum-valued keys holding values outside their enum, for
// example from a hand-edited file, and reports whether any was reset.
func (s *Settings) repair() bool {
	def := DefaultSettings()
	repaired := false
	for _, f := range []struct {
		val     *string
		allowed []string
		def     string
	}{
		{&s.Position, positions, def.Position},
		{&s.Grouping, groupings, def.Grouping},
		{&s.Theme, themes, def.Theme},
	} {
		if !slices.Contains(f.allowed, *f.val) {
			*f.val = f.def
			repaired = true
		}
	}
	return repaired
}

func (s *Settings) validate() error {
	v := validate.Struct(s)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidSetting, v.Errors.One())
	}
	return nil
}

// set assigns a single key from its raw JSON value.
func (s *Settings) set(key string, value json.RawMessage) error {
	var err error
	switch key {
	case "position":
		err = json.Unmarshal(value, &s.Position)
	case "grouping":
		err = json.Unmarshal(value, &s.Grouping)
	case "zoom":
		err = json.Unmarshal(value, &s.Zoom)
	case "theme":
		err = json.Unmarshal(value, &s.Theme)
	case "language":
		var lang *string
		if err = json.Unmarshal(value, &lang); err == nil {
			s.Language = lang
		}
	case "useInternalShortcut":
		err = json.Unmarshal(value, &s.UseInternalShortcut)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
	}
	return s.validate()
}
