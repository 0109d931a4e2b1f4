package services

import (
	"context"
	"testing"

	"github.com/crewclock/apiserver/internal/sheets"
	"github.com/crewclock/apiserver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStarterForm() map[string]string {
	return map[string]string{
		"FirstName":             "Bob",
		"LastName":              "Builder",
		"DateOfBirth":           "1990-05-01",
		"Phone":                 "7700900123",
		"Email":                 "bob@example.com",
		"EmergencyContactName":  "Wendy",
		"EmergencyContactPhone": "7700900456",
		"MedicalCondition":      "No",
		"Position":              "Labourer",
		"CSCSNumber":            "12345678",
		"CSCSExpiry":            "2026-01-01",
		"EmploymentType":        "CIS",
		"RightToWork":           "yes",
		"NINumber":              "QQ123456C",
		"UTR":                   "1234567890",
		"StartDate":             "2024-03-11",
		"BankAccountNumber":     "12345678",
		"SortCode":              "12-34-56",
		"AccountHolderName":     "Bob Builder",
		"ContractDate":          "2024-03-04",
		"SiteAddress":           "1 High Street",
		"DocumentsLink":         "https://drive.example.com/bob",
		"ContractAccepted":      "on",
		"SignatureName":         "Bob Builder",
	}
}

func TestSubmitRejectsMissingRequiredFields(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)

	form := validStarterForm()
	delete(form, "Email")
	form["RightToWork"] = "maybe"

	_, err := svc.Submit(context.Background(), "bob", form)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"Email", "Right to Work"}, validation.Missing)
	assert.Contains(t, err.Error(), "Email")

	assert.Len(t, env.backend.Rows("Onboarding"), 1)
	assert.Equal(t, "FALSE", env.backend.Rows("Employees")[2][5])
	assert.Empty(t, env.events.types())
}

func TestSubmitRequiresContractAcceptance(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)

	form := validStarterForm()
	form["ContractAccepted"] = ""

	_, err := svc.Submit(context.Background(), "bob", form)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []string{"Contract Acceptance"}, validation.Missing)
}

func TestSubmitAppendsThenOverwrites(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)
	ctx := context.Background()

	record, err := svc.Submit(ctx, "bob", validStarterForm())
	require.NoError(t, err)
	assert.Equal(t, "TRUE", record.Fields[ColumnContractAccepted])
	assert.Equal(t, "no", record.Fields["MedicalCondition"])
	assert.Equal(t, DefaultDialCode, record.Fields["PhoneCountryCode"])
	assert.Equal(t, "2024-03-04 09:00:00", record.Fields[ColumnSignatureTimestamp])
	assert.Equal(t, record.Fields[ColumnSignatureTimestamp], record.Fields[ColumnSubmittedAt])

	require.Len(t, env.backend.Rows("Onboarding"), 2)
	assert.Equal(t, "TRUE", env.backend.Rows("Employees")[2][5])

	form := validStarterForm()
	form["Position"] = "Carpenter"
	form["PhoneCountryCode"] = "+353"
	env.clock.Set(at("2024-03-05", "10:00:00"))
	_, err = svc.Submit(ctx, "bob", form)
	require.NoError(t, err)

	require.Len(t, env.backend.Rows("Onboarding"), 2)
	stored, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Carpenter", stored.Fields["Position"])
	assert.Equal(t, "+353", stored.Fields["PhoneCountryCode"])
	assert.Equal(t, "2024-03-05 10:00:00", stored.Fields[ColumnSubmittedAt])

	assert.Equal(t, []string{EventOnboardingCompleted, EventOnboardingCompleted}, env.events.types())
}

func TestSubmitRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)
	ctx := context.Background()

	form := validStarterForm()
	form["MedicalCondition"] = "no"
	form["City"] = "Leeds"
	_, err := svc.Submit(ctx, "bob", form)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, "bob")
	require.NoError(t, err)
	for column, value := range form {
		if column == ColumnContractAccepted {
			continue
		}
		assert.Equal(t, value, stored.Fields[column], column)
	}
	assert.Equal(t, "TRUE", stored.Fields[ColumnContractAccepted])
}

func TestSubmitDropsColumnsMissingFromHeader(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Seed("Onboarding", []string{"Username", "FirstName", "Email", "SubmittedAt"})
	table, err := sheets.OpenTable(context.Background(), env.backend, "Onboarding", store.OnboardingKeyColumn)
	require.NoError(t, err)
	svc := NewOnboardingService(store.NewOnboardingRepository(table), env.repos.Employees, env.opts)

	assert.Contains(t, svc.UnmappedColumns(), "LastName")
	assert.NotContains(t, svc.UnmappedColumns(), "Email")

	_, err = svc.Submit(context.Background(), "bob", validStarterForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "Bob", "bob@example.com", "2024-03-04 09:00:00"}, env.backend.Rows("Onboarding")[1])
}

func TestSubmitKeepsRecordWhenFlagWriteFails(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)

	_, err := svc.Submit(context.Background(), "ghost", validStarterForm())
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Len(t, env.backend.Rows("Onboarding"), 2)
}

func TestOnboardingListFiltersByName(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOnboardingService(env.repos.Onboarding, env.repos.Employees, env.opts)
	ctx := context.Background()

	_, err := svc.Submit(ctx, "bob", validStarterForm())
	require.NoError(t, err)
	form := validStarterForm()
	form["FirstName"], form["LastName"] = "Erin", "Stone"
	_, err = svc.Submit(ctx, "erin", form)
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.List(ctx, "  erin STONE ")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "erin", matched[0].Username)
}

func TestFieldsReturnsCopy(t *testing.T) {
	svc := NewOnboardingService(nil, nil, Options{})
	fields := svc.Fields()
	fields[0].Label = "changed"
	assert.Equal(t, "First Name", svc.Fields()[0].Label)
}
