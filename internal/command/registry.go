// internal/command/registry.go
package command

import "fmt"

// catalog is the device command table in declaration order.
// Order drives action, feedback, variable and poll ordering.
var catalog = []Command{
	{ID: Enabled, Name: "ENABLED", Token: "EN", Access: ReadOnly},
	{ID: Location, Name: "LOCATION", Token: "LO", Access: ReadOnly},
	{ID: Version, Name: "VERSION", Token: "SV", Access: ReadOnly},
	{ID: TargetDensity, Name: "TARGET_DENSITY", Token: "TD", Access: ReadOnly},
	{ID: RollerDiameter, Name: "ROLLER_DIAMETER", Token: "RD", Access: ReadOnly},
	{ID: SlackWrap, Name: "SLACK_WRAP", Token: "SL", Access: ReadOnly},
	{ID: ScreenThickness, Name: "SCREEN_THICKNESS", Token: "ST", Access: ReadOnly},
	{ID: ScreenWidth, Name: "SCREEN_WIDTH", Token: "SW", Access: ReadOnly},
	{ID: ScreenHeight, Name: "SCREEN_HEIGHT", Token: "SH", Access: ReadOnly},
	{ID: MacAddress, Name: "MAC_ADDRESS", Token: "MA", Access: ReadOnly},
	{ID: SensorStatus, Name: "SENSOR_STATUS", Token: "SE", Access: ReadOnly},
	{ID: RelayStatus, Name: "RELAY_STATUS", Token: "RE", Access: ReadWrite},
	{ID: UpperLimit, Name: "UPPER_LIMIT", Token: "UL", Access: ReadOnly},
	{ID: LowerLimit, Name: "LOWER_LIMIT", Token: "LM", Access: ReadOnly},
	{ID: ScreenPosition, Name: "SCREEN_POSITION", Token: "MM", Access: ReadWrite},
	{ID: TargetPosition, Name: "TARGET_POSITION", Token: "TA", Access: ReadWrite},
	{ID: AspectRatio, Name: "ASPECT_RATIO", Token: "A", Access: ReadWrite, Slots: SlotCount},
	{ID: AC, Name: "AC", Token: "AC", Access: ReadOnly},
	{ID: IPAddress, Name: "IP_ADDRESS", Token: "IP", Access: ReadOnly},
	{ID: SubnetMask, Name: "SUBNET_MASK", Token: "SN", Access: ReadOnly},
	{ID: DHCP, Name: "DHCP", Token: "DH", Access: ReadOnly},
}

// Registry resolves between symbolic names, wire tokens and ids.
// It is built once and never mutated; share it by pointer.
type Registry struct {
	ordered []Command
	byID    map[ID]Command
	byName  map[string]Command
	byToken map[string]Command
	indexed Command
}

// NewRegistry builds the device catalog.
func NewRegistry() *Registry {
	r := &Registry{
		ordered: make([]Command, len(catalog)),
		byID:    make(map[ID]Command, len(catalog)),
		byName:  make(map[string]Command, len(catalog)),
		byToken: make(map[string]Command, len(catalog)),
	}
	copy(r.ordered, catalog)

	for _, c := range r.ordered {
		r.byID[c.ID] = c
		r.byName[c.Name] = c
		r.byToken[c.Token] = c
		if c.Indexed() {
			r.indexed = c
		}
	}
	return r
}

// Get returns the command for a catalog id. It panics on an id outside the
// catalog, which can only be a programming error.
func (r *Registry) Get(id ID) Command {
	c, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("command: id %d not in catalog", id))
	}
	return c
}

// ByName resolves a symbolic name such as RELAY_STATUS.
func (r *Registry) ByName(name string) (Command, error) {
	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: name %q", ErrUnknownCommand, name)
}

// ByToken resolves a bare wire token such as RE.
func (r *Registry) ByToken(token string) (Command, error) {
	if c, ok := r.byToken[token]; ok {
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: token %q", ErrUnknownCommand, token)
}

// Resolve accepts a name, a token, or an indexed wire token (A0..A9).
// Indexed form is checked first, then token, then name.
func (r *Registry) Resolve(nameOrToken string) (Command, error) {
	if ix, ok := r.matchIndexed(nameOrToken); ok {
		return ix.Command, nil
	}
	if c, err := r.ByToken(nameOrToken); err == nil {
		return c, nil
	}
	if c, err := r.ByName(nameOrToken); err == nil {
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, nameOrToken)
}

// ResolveIndexed resolves an indexed token plus its slot digit.
func (r *Registry) ResolveIndexed(token string, digit byte) (Indexed, error) {
	if r.indexed.Token == "" || token != r.indexed.Token || digit < '0' || digit > '9' {
		return Indexed{}, fmt.Errorf("%w: indexed %q%c", ErrUnknownCommand, token, digit)
	}
	return Indexed{Command: r.indexed, Slot: int(digit - '0')}, nil
}

// ParseWireToken resolves the token field of a response line.
// slot is -1 for scalar commands. An indexed command seen without its
// digit does not resolve.
func (r *Registry) ParseWireToken(tok string) (Command, int, error) {
	if ix, ok := r.matchIndexed(tok); ok {
		return ix.Command, ix.Slot, nil
	}
	c, err := r.ByToken(tok)
	if err != nil {
		return Command{}, -1, err
	}
	if c.Indexed() {
		return Command{}, -1, fmt.Errorf("%w: %q without slot", ErrUnknownCommand, tok)
	}
	return c, -1, nil
}

func (r *Registry) matchIndexed(s string) (Indexed, bool) {
	if len(s) != 2 {
		return Indexed{}, false
	}
	ix, err := r.ResolveIndexed(s[:1], s[1])
	if err != nil {
		return Indexed{}, false
	}
	return ix, true
}

// Indexed returns the indexed command of the catalog.
func (r *Registry) Indexed() Command {
	return r.indexed
}

// All returns every command in declaration order.
func (r *Registry) All() []Command {
	out := make([]Command, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// List returns the commands whose access mode is one of modes,
// in declaration order.
func (r *Registry) List(modes ...AccessMode) []Command {
	var out []Command
	for _, c := range r.ordered {
		for _, m := range modes {
			if c.Access == m {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Readable returns every command that may be read, in declaration order.
func (r *Registry) Readable() []Command {
	return r.List(ReadOnly, ReadWrite)
}

// Writable returns every command that may be written, in declaration order.
func (r *Registry) Writable() []Command {
	return r.List(WriteOnly, ReadWrite)
}

// Internal reports commands that are settings rather than controls.
// They are polled and displayed but get no action or feedback.
func Internal(id ID) bool {
	switch id {
	case Location, IPAddress, SubnetMask, TargetPosition:
		return true
	default:
		return false
	}
}

func (id ID) String() string {
	for _, c := range catalog {
		if c.ID == id {
			return c.Name
		}
	}
	return fmt.Sprintf("ID(%d)", uint8(id))
}
