package wizard

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"visadesk/e2e/steps/common"
)

func RegisterSteps(ctx *godog.ScenarioContext, tc common.TestContext) {
	steps := &wizardSteps{tc: tc}

	ctx.Step(`^I start a wizard session$`, steps.start)
	ctx.Step(`^I start a wizard session for client (\d+)$`, steps.startForClient)
	ctx.Step(`^I select visa "([^"]*)"$`, steps.selectVisa)
	ctx.Step(`^I fill in the applicant details:$`, steps.fillDetails)
	ctx.Step(`^I advance the wizard$`, steps.advance)
	ctx.Step(`^I go back a step$`, steps.retreat)
	ctx.Step(`^I complete the wizard$`, steps.complete)
	ctx.Step(`^I cancel the wizard$`, steps.cancel)
	ctx.Step(`^the wizard should be on step "([^"]*)"$`, steps.shouldBeOnStep)
	ctx.Step(`^the refused view should flag "([^"]*)"$`, steps.refusedViewFlags)
}

type wizardSteps struct {
	tc common.TestContext
}

func (s *wizardSteps) start(ctx context.Context) error {
	return s.startWith(nil)
}

func (s *wizardSteps) startForClient(_ context.Context, clientID int) error {
	return s.startWith(map[string]int{"clientId": clientID})
}

func (s *wizardSteps) startWith(body any) error {
	if err := s.tc.Do("POST", "/wizards", body); err != nil {
		return err
	}
	if s.tc.Status() != 201 {
		return fmt.Errorf("start wizard: status %d: %s", s.tc.Status(), s.tc.Body())
	}
	id, err := s.tc.Field("sessionId")
	if err != nil {
		return err
	}
	s.tc.Remember("session", common.Stringify(id))
	return nil
}

func (s *wizardSteps) selectVisa(_ context.Context, code string) error {
	return s.tc.Do("POST", "/wizards/{session}/visa", map[string]string{"code": code})
}

func (s *wizardSteps) fillDetails(_ context.Context, table *godog.Table) error {
	fields := make(map[string]string, len(table.Rows))
	for i, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("row %d: expected field | value", i+1)
		}
		fields[row.Cells[0].Value] = row.Cells[1].Value
	}
	return s.tc.Do("PATCH", "/wizards/{session}/fields", map[string]any{"fields": fields})
}

func (s *wizardSteps) advance(context.Context) error {
	return s.tc.Do("POST", "/wizards/{session}/advance", nil)
}

func (s *wizardSteps) retreat(context.Context) error {
	return s.tc.Do("POST", "/wizards/{session}/retreat", nil)
}

func (s *wizardSteps) complete(context.Context) error {
	return s.tc.Do("POST", "/wizards/{session}/complete", nil)
}

func (s *wizardSteps) cancel(context.Context) error {
	return s.tc.Do("DELETE", "/wizards/{session}", nil)
}

func (s *wizardSteps) shouldBeOnStep(_ context.Context, id string) error {
	v, err := s.tc.Field("step.id")
	if err != nil {
		return err
	}
	if got := common.Stringify(v); got != id {
		return fmt.Errorf("expected step %q, got %q", id, got)
	}
	return nil
}

func (s *wizardSteps) refusedViewFlags(_ context.Context, field string) error {
	_, err := s.tc.Field("view.errors." + field)
	return err
}
