package e2e

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/cucumber/godog"
	"github.com/jrsteele09/monitor-dashboard/mockapi"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the console is running$`, tc.consoleIsRunning)

	// Session steps
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.signedInAs)
	ctx.Step(`^I sign in with email "([^"]*)" and password "([^"]*)"$`, tc.signIn)
	ctx.Step(`^I sign out$`, tc.signOut)

	// Page steps
	ctx.Step(`^I visit "([^"]*)"$`, tc.visit)
	ctx.Step(`^I submit the form at "([^"]*)" with:$`, tc.submitForm)
	ctx.Step(`^I change the role of "([^"]*)" to "([^"]*)"$`, tc.changeRole)
	ctx.Step(`^I delete the user "([^"]*)"$`, tc.deleteUser)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^I should be redirected to "([^"]*)"$`, tc.redirectedTo)
	ctx.Step(`^the page should contain "([^"]*)"$`, tc.pageShouldContain)
	ctx.Step(`^the page should not contain "([^"]*)"$`, tc.pageShouldNotContain)
}

func (tc *TestContext) consoleIsRunning(ctx context.Context) error {
	if err := tc.GET("/login"); err != nil {
		return err
	}
	return tc.responseStatusShouldBe(ctx, 200)
}

func (tc *TestContext) signIn(ctx context.Context, email, password string) error {
	return tc.POSTForm("/auth/login", url.Values{"email": {email}, "password": {password}})
}

func (tc *TestContext) signedInAs(ctx context.Context, email string) error {
	if err := tc.signIn(ctx, email, mockapi.DefaultPassword); err != nil {
		return err
	}
	return tc.redirectedTo(ctx, "/dashboard")
}

func (tc *TestContext) signOut(ctx context.Context) error {
	return tc.POSTForm("/auth/logout", nil)
}

func (tc *TestContext) visit(ctx context.Context, path string) error {
	return tc.GET(path)
}

func (tc *TestContext) submitForm(ctx context.Context, path string, table *godog.Table) error {
	form := url.Values{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("form rows need a field and a value")
		}
		form.Set(row.Cells[0].Value, row.Cells[1].Value)
	}
	return tc.POSTForm(path, form)
}

func (tc *TestContext) changeRole(ctx context.Context, email, role string) error {
	id, err := tc.userID(email)
	if err != nil {
		return err
	}
	return tc.POSTForm("/users/"+id+"/role", url.Values{"role": {role}})
}

func (tc *TestContext) deleteUser(ctx context.Context, email string) error {
	id, err := tc.userID(email)
	if err != nil {
		return err
	}
	return tc.POSTForm("/users/"+id+"/delete", nil)
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expected int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response received")
	}
	if tc.LastResponse.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d", expected, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) redirectedTo(ctx context.Context, path string) error {
	if err := tc.responseStatusShouldBe(ctx, 303); err != nil {
		return err
	}
	if location := tc.LastResponse.Header.Get("Location"); location != path {
		return fmt.Errorf("expected redirect to %q, got %q", path, location)
	}
	return nil
}

func (tc *TestContext) pageShouldContain(ctx context.Context, text string) error {
	if !strings.Contains(tc.pageText(), text) {
		return fmt.Errorf("expected page to contain %q", text)
	}
	return nil
}

func (tc *TestContext) pageShouldNotContain(ctx context.Context, text string) error {
	if strings.Contains(tc.pageText(), text) {
		return fmt.Errorf("expected page not to contain %q", text)
	}
	return nil
}

// pageText is the body with entities decoded, so steps can quote what a user reads.
func (tc *TestContext) pageText() string {
	return html.UnescapeString(string(tc.LastResponseBody))
}
