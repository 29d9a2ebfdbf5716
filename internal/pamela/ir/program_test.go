package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_InternLvar_monotonic(t *testing.T) {
	assert := assert.New(t)

	p := NewProgram()
	assert.False(p.HasLvars)

	assert.True(p.InternLvar("route", StringValue("east")))
	assert.True(p.HasLvars)
	assert.False(p.InternLvar("route", StringValue("west")), "second intern of the same name is a no-op")
	assert.Equal(StringValue("east"), p.Lvars["route"])
}

func Test_HoistStateVar_deduplicates(t *testing.T) {
	assert := assert.New(t)

	p := NewProgram()
	p.HoistStateVar("temp")
	p.HoistStateVar("door")
	p.HoistStateVar("temp")

	assert.Equal([]Symbol{"temp", "door"}, p.StateVarOrder)
	assert.True(p.StateVars["temp"])
	assert.True(p.StateVars["door"])
}

func Test_Bounds(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("[0, infinity]", DefaultBounds().String())
	assert.True(DefaultBounds().Infinite())
	assert.Equal("[0, 0]", ZeroBounds().String())
	assert.False(ZeroBounds().Infinite())
	assert.Equal("[2, 7]", Bounds{Lower: 2, Upper: 7}.String())
}

func Test_TransitionKey(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("off:on", TransitionKey("off", "on"))
	assert.Equal("*:on", TransitionKey(Wildcard, "on"))
}

func Test_Pclass_HasMode(t *testing.T) {
	assert := assert.New(t)

	p := NewPclass("sw")
	p.Modes["on"] = LiteralTrue()
	assert.True(p.HasMode("on"))
	assert.True(p.HasMode(Wildcard))
	assert.False(p.HasMode("off"))
}
