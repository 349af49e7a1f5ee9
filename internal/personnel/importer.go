package personnel

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rtplus/rtplus/internal/monitoring"
	"github.com/rtplus/rtplus/internal/sandbox"
	"github.com/rtplus/rtplus/internal/store"
)

// Importer validates parsed rows and writes new people in one batch.
type Importer struct {
	store    store.PersonnelImportStore
	validate *validator.Validate
}

// NewImporter creates an Importer backed by the given store.
func NewImporter(s store.PersonnelImportStore) *Importer {
	return &Importer{store: s, validate: validator.New()}
}

type candidate struct {
	Name   string `validate:"required,max=200"`
	Email  string `validate:"required,email,max=320"`
	Status string `validate:"omitempty,oneof=Active Inactive"`
}

// Import validates rows and creates the people that are not yet present in
// orgID. Rows are skipped when their email repeats an earlier row or an
// existing person. Either every planned person is created or none is.
func (im *Importer) Import(ctx context.Context, orgID string, rows []Row, opts Options) (*Result, error) {
	existing, err := im.store.ExistingEmails(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("load existing personnel: %w", err)
	}

	res := &Result{
		Created: []store.Person{},
		Skipped: []RowIssue{},
		Invalid: []RowIssue{},
	}
	seen := make(map[string]int)
	var planned []Row

	for _, row := range rows {
		row.Name = strings.Join(strings.Fields(row.Name), " ")
		row.Email = strings.ToLower(strings.TrimSpace(row.Email))
		row.Status = strings.TrimSpace(row.Status)

		if row.Email == "" && opts.Sandbox {
			domain := opts.SandboxDomain
			if domain == "" {
				domain = sandbox.Domain
			}
			row.Email = sandbox.EmailOfDomain(row.Name, domain)
		}

		if err := im.validate.Struct(candidate{Name: row.Name, Email: row.Email, Status: row.Status}); err != nil {
			res.Invalid = append(res.Invalid, RowIssue{Row: row, Reason: describeValidation(err)})
			continue
		}

		switch line, dup := seen[row.Email]; {
		case dup:
			res.Skipped = append(res.Skipped, RowIssue{Row: row, Reason: fmt.Sprintf("duplicate of line %d", line)})
			continue
		case existing[row.Email]:
			res.Skipped = append(res.Skipped, RowIssue{Row: row, Reason: "already exists"})
			continue
		}
		seen[row.Email] = row.Line
		planned = append(planned, row)
	}

	if opts.DryRun || len(planned) == 0 {
		res.Planned = planned
		return res, nil
	}

	people := make([]store.NewPerson, len(planned))
	for i, row := range planned {
		people[i] = store.NewPerson{Name: row.Name, Email: row.Email, Status: row.Status}
	}
	created, err := im.store.CreatePeople(ctx, orgID, people)
	if err != nil {
		return nil, fmt.Errorf("create personnel: %w", err)
	}
	res.Created = created

	monitoring.Logf("personnel import: org=%s created=%d skipped=%d invalid=%d",
		orgID, len(res.Created), len(res.Skipped), len(res.Invalid))
	return res, nil
}

// describeValidation turns validator errors into a short reason.
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	reasons := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			reasons = append(reasons, field+" is required")
		case "email":
			reasons = append(reasons, field+" is not a valid address")
		case "oneof":
			reasons = append(reasons, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			reasons = append(reasons, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(reasons, "; ")
}
