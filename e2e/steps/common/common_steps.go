package common

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the slice of the scenario context these steps need.
type TestContext interface {
	Do(method, path string, body any) error
	Status() int
	Field(path string) (any, error)
	Remember(name, value string)
	Body() string
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the service is healthy$`, steps.serviceIsHealthy)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^I DELETE "([^"]*)"$`, steps.delete)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be present$`, steps.fieldShouldBePresent)
	ctx.Step(`^the error code should be "([^"]*)"$`, steps.errorCodeShouldBe)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) serviceIsHealthy(context.Context) error {
	if err := s.tc.Do("GET", "/health", nil); err != nil {
		return err
	}
	return s.statusShouldBe(context.Background(), 200)
}

func (s *commonSteps) get(_ context.Context, path string) error {
	return s.tc.Do("GET", path, nil)
}

func (s *commonSteps) delete(_ context.Context, path string) error {
	return s.tc.Do("DELETE", path, nil)
}

func (s *commonSteps) statusShouldBe(_ context.Context, want int) error {
	if got := s.tc.Status(); got != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, got, s.tc.Body())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(_ context.Context, path, want string) error {
	v, err := s.tc.Field(path)
	if err != nil {
		return err
	}
	if got := Stringify(v); got != want {
		return fmt.Errorf("%s: expected %q, got %q", path, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBePresent(_ context.Context, path string) error {
	_, err := s.tc.Field(path)
	return err
}

func (s *commonSteps) errorCodeShouldBe(ctx context.Context, code string) error {
	return s.fieldShouldEqual(ctx, "error", code)
}

// Stringify renders a decoded JSON scalar the way a feature file writes it.
func Stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		return fmt.Sprint(t)
	}
}
