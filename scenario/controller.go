package scenario

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/physics2d/physics"
)

// controllerDispatch is appended to every controller script. Scripts define
// update(ctx) and steer bodies by writing ctx.bodies[name].vx and .vy.
const controllerDispatch = `
update(__ctx)
`

// Controller runs a compiled tengo script once per tick.
type Controller struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	logger   *log.Logger
}

func LoadController(name string, logger *log.Logger) (*Controller, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("scenario: load script %s: %w", name, err)
	}
	return NewController(name, src, logger)
}

func NewController(name string, src []byte, logger *log.Logger) (*Controller, error) {
	if logger == nil {
		logger = log.Default()
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + controllerDispatch))
	_ = script.Add("__ctx", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("scenario: compile %s: %w", name, err)
	}
	return &Controller{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		logger:   logger,
	}, nil
}

func (c *Controller) Name() string {
	return c.name
}

// Update exposes tick, dt, a persistent state map and every body's position
// and velocity to the script, then copies velocities back.
func (c *Controller) Update(tick uint64, dt float64, bodies map[string]*physics.Body) error {
	if c == nil || c.compiled == nil {
		return fmt.Errorf("scenario: nil controller")
	}

	views := make(map[string]*tengo.Map, len(bodies))
	exposed := make(map[string]tengo.Object, len(bodies))
	for name, b := range bodies {
		p, v := b.Position(), b.Velocity()
		m := &tengo.Map{Value: map[string]tengo.Object{
			"x":        &tengo.Float{Value: p.X},
			"y":        &tengo.Float{Value: p.Y},
			"vx":       &tengo.Float{Value: v.X},
			"vy":       &tengo.Float{Value: v.Y},
			"dynamic":  boolObject(b.IsDynamic()),
			"contacts": &tengo.Int{Value: int64(len(b.Collisions()))},
		}}
		views[name] = m
		exposed[name] = m
	}

	ctx := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"tick":   &tengo.Int{Value: int64(tick)},
		"dt":     &tengo.Float{Value: dt},
		"state":  c.state,
		"bodies": &tengo.ImmutableMap{Value: exposed},
		"log": &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, 0, len(args))
			for _, a := range args {
				parts = append(parts, objectAsString(a))
			}
			c.logger.Printf("Controller: %s: %s", c.name, strings.Join(parts, " "))
			return tengo.UndefinedValue, nil
		}},
	}}

	if err := c.compiled.Set("__ctx", ctx); err != nil {
		return err
	}
	if err := c.compiled.Run(); err != nil {
		c.logger.Printf("Controller: %s tick=%d script error: %v", c.name, tick, err)
		return fmt.Errorf("scenario: run %s: %w", c.name, err)
	}

	for name, m := range views {
		b := bodies[name]
		if !b.IsDynamic() {
			continue
		}
		vx, okX := objectToFloat(m.Value["vx"])
		vy, okY := objectToFloat(m.Value["vy"])
		if !okX || !okY {
			return fmt.Errorf("scenario: %s: body %q velocity must be numeric", c.name, name)
		}
		b.SetVelocity(cp.Vector{X: vx, Y: vy})
	}
	return nil
}

func objectToFloat(obj tengo.Object) (float64, bool) {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value, true
	case *tengo.Int:
		return float64(v.Value), true
	}
	return 0, false
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
