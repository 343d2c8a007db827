package keymap

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/abacus/pkg/domain"
)

// Profile selects which keys of the layout are available.
type Profile string

const (
	ProfileBasic      Profile = "basic"
	ProfileScientific Profile = "scientific"
)

// ParseProfile validates a profile name. An empty name selects scientific.
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(s)) {
	case "", ProfileScientific:
		return ProfileScientific, nil
	case ProfileBasic:
		return ProfileBasic, nil
	}
	return "", fmt.Errorf("unknown keymap profile %q", s)
}

// Binding ties a calculator key to its event.
type Binding struct {
	// Token is the canonical name used by text hosts.
	Token string `json:"token"`
	// Label is what the button shows.
	Label   string       `json:"label"`
	Aliases []string     `json:"aliases,omitempty"`
	Keys    []Key        `json:"keys,omitempty"`
	Event   domain.Event `json:"event"`
	// Scientific keys are hidden by the basic profile.
	Scientific bool `json:"scientific"`
}

// Keymap resolves tokens and key presses into engine events.
// A Keymap is immutable and safe for concurrent use.
type Keymap struct {
	profile Profile
	table   []Binding
	byToken map[string]int
	byKey   map[Key]int
}

var numberLiteral = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// New builds a keymap for the given profile.
// Unknown profiles fall back to scientific.
func New(p Profile) *Keymap {
	if p != ProfileBasic {
		p = ProfileScientific
	}
	km := &Keymap{
		profile: p,
		table:   defaultTable(),
		byToken: make(map[string]int),
		byKey:   make(map[Key]int),
	}
	for i, b := range km.table {
		km.byToken[b.Token] = i
		for _, a := range b.Aliases {
			km.byToken[a] = i
		}
		for _, k := range b.Keys {
			km.byKey[k] = i
		}
	}
	return km
}

// Profile returns the active profile.
func (km *Keymap) Profile() Profile {
	return km.profile
}

// Bindings lists the keys available in the active profile, in layout order.
func (km *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(km.table))
	for _, b := range km.table {
		if km.allowed(b) {
			out = append(out, b)
		}
	}
	return out
}

// Resolve maps one token to its event.
// Lookup is exact first, then case-insensitive.
func (km *Keymap) Resolve(token string) (domain.Event, error) {
	token = strings.TrimSpace(token)
	i, ok := km.byToken[token]
	if !ok {
		i, ok = km.byToken[strings.ToLower(token)]
	}
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: %q", domain.ErrUnknownKey, token)
	}
	return km.check(km.table[i], token)
}

// Expand maps a token to events. A multi-digit literal such as "12.5" is
// shorthand for pressing each of its keys in turn; any other token maps to
// exactly one event.
func (km *Keymap) Expand(token string) ([]domain.Event, error) {
	token = strings.TrimSpace(token)
	if len(token) > 1 && numberLiteral.MatchString(token) {
		events := make([]domain.Event, 0, len(token))
		for _, r := range token {
			ev, err := km.Resolve(string(r))
			if err != nil {
				return nil, err
			}
			events = append(events, ev)
		}
		return events, nil
	}
	ev, err := km.Resolve(token)
	if err != nil {
		return nil, err
	}
	return []domain.Event{ev}, nil
}

// ExpandAll expands every token, failing on the first unknown one.
func (km *Keymap) ExpandAll(tokens []string) ([]domain.Event, error) {
	var events []domain.Event
	for _, t := range tokens {
		evs, err := km.Expand(t)
		if err != nil {
			return nil, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

// FromKey maps a keyboard press to its event.
// Terminals rarely report Shift for printable symbols, so a symbol that only
// matches with the opposite Shift state still resolves.
func (km *Keymap) FromKey(k Key) (domain.Event, error) {
	k = k.normalize()
	i, ok := km.byKey[k]
	if !ok && len(k.Name) == 1 && !isAlnum(k.Name[0]) {
		flipped := k
		flipped.Shift = !k.Shift
		i, ok = km.byKey[flipped]
	}
	if !ok {
		return domain.Event{}, fmt.Errorf("%w: %s", domain.ErrUnknownKey, k)
	}
	return km.check(km.table[i], k.String())
}

func (km *Keymap) check(b Binding, input string) (domain.Event, error) {
	if !km.allowed(b) {
		return domain.Event{}, fmt.Errorf("%w: %q (%s layout)", domain.ErrKeyNotInLayout, input, km.profile)
	}
	return b.Event, nil
}

func (km *Keymap) allowed(b Binding) bool {
	return km.profile == ProfileScientific || !b.Scientific
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
