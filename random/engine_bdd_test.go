package random

import (
	"fmt"
	"testing"

	"github.com/cucumber/godog"
)

// engineBDDContext holds the state threaded through one scenario of
// features/engine.feature.
type engineBDDContext struct {
	kind EngineKind
	seed int64

	gens map[string]*Generator

	floats map[string]float64

	savedState EngineState
	firstInt   int64
	secondInt  int64

	uuid string
}

func (c *engineBDDContext) reset() {
	c.gens = map[string]*Generator{}
	c.floats = map[string]float64{}
}

func parseEngineKind(name string) (EngineKind, error) {
	switch name {
	case "xoroshiro128++":
		return Xoroshiro128PP, nil
	case "xoshiro256++":
		return Xoshiro256PP, nil
	case "pcg-xsh-rr":
		return PCGXSHRR, nil
	case "splitmix64":
		return SplitMix64Kind, nil
	case "chacha20":
		return ChaCha20Kind, nil
	case "crypto":
		return CryptoKind, nil
	default:
		return 0, fmt.Errorf("unknown engine kind %q", name)
	}
}

func (c *engineBDDContext) aGeneratorSeededWith(kindName string, seed int64) error {
	c.reset()
	kind, err := parseEngineKind(kindName)
	if err != nil {
		return err
	}
	c.kind = kind
	c.seed = seed
	c.gens["primary"] = Create(kind, IntSeed(seed))
	return nil
}

func (c *engineBDDContext) anotherGeneratorSeededWith(kindName string, seed int64) error {
	kind, err := parseEngineKind(kindName)
	if err != nil {
		return err
	}
	c.gens["secondary"] = Create(kind, IntSeed(seed))
	return nil
}

func (c *engineBDDContext) iDrawAFloatFromEachGenerator() error {
	c.floats["primary"] = c.gens["primary"].Float()
	c.floats["secondary"] = c.gens["secondary"].Float()
	return nil
}

func (c *engineBDDContext) bothFloatsShouldBeEqual() error {
	if c.floats["primary"] != c.floats["secondary"] {
		return fmt.Errorf("expected equal floats, got %v and %v", c.floats["primary"], c.floats["secondary"])
	}
	return nil
}

func (c *engineBDDContext) iSaveItsState() error {
	c.savedState = c.gens["primary"].Engine().State()
	return nil
}

func (c *engineBDDContext) iDrawAnIntegerBetweenAnd(lo, hi int64) error {
	c.firstInt = c.gens["primary"].Int(lo, hi)
	return nil
}

func (c *engineBDDContext) iRestoreTheSavedState() error {
	c.gens["primary"].Engine().SetState(c.savedState)
	return nil
}

func (c *engineBDDContext) iDrawAnotherIntegerBetweenAnd(lo, hi int64) error {
	c.secondInt = c.gens["primary"].Int(lo, hi)
	return nil
}

func (c *engineBDDContext) theTwoIntegersShouldBeEqual() error {
	if c.firstInt != c.secondInt {
		return fmt.Errorf("expected equal integers, got %d and %d", c.firstInt, c.secondInt)
	}
	return nil
}

func (c *engineBDDContext) iGenerateAUUID() error {
	c.uuid = c.gens["primary"].UUID()
	return nil
}

func (c *engineBDDContext) theUUIDShouldMatchTheRFC4122V4Pattern() error {
	if !uuidV4Pattern.MatchString(c.uuid) {
		return fmt.Errorf("uuid %q does not match RFC4122 v4 pattern", c.uuid)
	}
	return nil
}

func (c *engineBDDContext) iDrawIntegersBetweenAnd(n int, lo, hi int64) error {
	for i := 0; i < n; i++ {
		c.gens["primary"].Int(lo, hi)
	}
	return nil
}

func (c *engineBDDContext) iReseedTheGeneratorWith(seed int64) error {
	c.gens["primary"] = Create(c.kind, IntSeed(seed))
	return nil
}

func (c *engineBDDContext) theEngineCallCounterShouldBe(want uint64) error {
	got := c.gens["primary"].Engine().State().Counter
	if got != want {
		return fmt.Errorf("expected call counter %d, got %d", want, got)
	}
	return nil
}

func TestEngineBDD(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			c := &engineBDDContext{}

			sc.Given(`^a "([^"]*)" generator seeded with (\d+)$`, c.aGeneratorSeededWith)
			sc.Given(`^another "([^"]*)" generator seeded with (\d+)$`, c.anotherGeneratorSeededWith)

			sc.When(`^I draw a float from each generator$`, c.iDrawAFloatFromEachGenerator)
			sc.Then(`^both floats should be equal$`, c.bothFloatsShouldBeEqual)

			sc.When(`^I save its state$`, c.iSaveItsState)
			sc.When(`^I draw an integer between (\d+) and (\d+)$`, c.iDrawAnIntegerBetweenAnd)
			sc.When(`^I restore the saved state$`, c.iRestoreTheSavedState)
			sc.When(`^I draw another integer between (\d+) and (\d+)$`, c.iDrawAnotherIntegerBetweenAnd)
			sc.Then(`^the two integers should be equal$`, c.theTwoIntegersShouldBeEqual)

			sc.When(`^I generate a UUID$`, c.iGenerateAUUID)
			sc.Then(`^the UUID should match the RFC4122 v4 pattern$`, c.theUUIDShouldMatchTheRFC4122V4Pattern)

			sc.When(`^I draw (\d+) integers between (\d+) and (\d+)$`, c.iDrawIntegersBetweenAnd)
			sc.When(`^I reseed the generator with (\d+)$`, c.iReseedTheGeneratorWith)
			sc.Then(`^the engine call counter should be (\d+)$`, c.theEngineCallCounterShouldBe)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
