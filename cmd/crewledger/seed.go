package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

var (
	seedEmployees int
	seedDays      int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with fake employees and ledgers",
	Long: `Generates departments, work categories, employees and a plausible
clock-in/clock-out ledger per employee for local development. Each day gets a
CLOCK_IN, a lunch break and a CLOCK_OUT with correctly chained hashes.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedEmployees, "employees", 10, "number of employees to generate")
	seedCmd.Flags().IntVar(&seedDays, "days", 5, "number of working days of ledger history")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, cleanup, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	departments := []*models.Department{
		{ID: "dept-eng", Name: "Engineering"},
		{ID: "dept-ops", Name: "Operations"},
	}
	for _, d := range departments {
		if err := repo.CreateDepartment(ctx, d); err != nil && err != repository.ErrDepartmentExists {
			return err
		}
	}
	categories := []*models.WorkCategory{
		{Code: "ENG-100", DepartmentID: "dept-eng", Name: "Product Development", CostCenter: "CC-ENG", Active: true, Default: true},
		{Code: "ENG-200", DepartmentID: "dept-eng", Name: "Platform", CostCenter: "CC-ENG", Active: true},
		{Code: "OPS-100", DepartmentID: "dept-ops", Name: "Operations", CostCenter: "CC-OPS", Active: true, Default: true},
	}
	for _, c := range categories {
		if err := repo.CreateWorkCategory(ctx, c); err != nil && err != repository.ErrCategoryExists {
			return err
		}
	}

	for i := 0; i < seedEmployees; i++ {
		dept := departments[i%len(departments)]
		employee := &models.Employee{
			ID:           fmt.Sprintf("emp-%03d", i+1),
			FullName:     gofakeit.Name(),
			Email:        gofakeit.Email(),
			DepartmentID: dept.ID,
			Active:       true,
		}
		if err := repo.CreateEmployee(ctx, employee); err != nil && err != repository.ErrEmployeeExists {
			return err
		}

		code := "ENG-100"
		if dept.ID == "dept-ops" {
			code = "OPS-100"
		}
		if err := seedLedger(ctx, repo, employee.ID, code); err != nil {
			return err
		}
	}

	fmt.Printf("Seeded %d employees with %d days of ledger history\n", seedEmployees, seedDays)
	return nil
}

// seedLedger writes a clean chained ledger for one employee, one working day
// at a time. Start times and durations jitter a little so derived attendance
// records are not all identical.
func seedLedger(ctx context.Context, repo repository.Repository, employeeID, categoryCode string) error {
	seq := 0
	prevHash := models.GenesisHash
	var prevTS *time.Time

	day := time.Now().UTC().AddDate(0, 0, -seedDays)
	for d := 0; d < seedDays; d++ {
		day = day.AddDate(0, 0, 1)
		start := time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, time.UTC).
			Add(time.Duration(gofakeit.Number(0, 45)) * time.Minute)
		lunch := start.Add(4 * time.Hour)
		lunchEnd := lunch.Add(time.Duration(gofakeit.Number(15, 30)) * time.Minute)
		end := start.Add(time.Duration(gofakeit.Number(8, 9))*time.Hour + 30*time.Minute)

		steps := []struct {
			ts  time.Time
			typ models.TimestampType
		}{
			{start, models.TypeClockIn},
			{lunch, models.TypeBreakStart},
			{lunchEnd, models.TypeBreakEnd},
			{end, models.TypeClockOut},
		}
		for _, step := range steps {
			seq++
			event := &models.TimestampEvent{
				EmployeeID:        employeeID,
				Timestamp:         step.ts,
				Type:              step.typ,
				SequenceNumber:    seq,
				PreviousTimestamp: prevTS,
				HashChain:         prevHash,
				WorkCategoryCode:  categoryCode,
				DeviceID:          "seed",
			}
			if err := repo.AppendEvent(ctx, event); err != nil {
				if err == repository.ErrEventExists {
					continue
				}
				return err
			}
			prevHash = ledger.Digest(event)
			ts := step.ts
			prevTS = &ts
		}
	}
	return nil
}
