package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crewledger-systems/crewledger/internal/apperrors"
	"github.com/crewledger-systems/crewledger/internal/ledger"
	"github.com/crewledger-systems/crewledger/internal/metrics"
	"github.com/crewledger-systems/crewledger/internal/models"
	"github.com/crewledger-systems/crewledger/internal/repository"
)

// AuditService replays an employee's entire ledger and reports every
// integrity violation. Violations are data, not faults: the only error paths
// here are unknown employees and storage failures.
type AuditService struct {
	events repository.LedgerStore
	dir    repository.Directory
}

func NewAuditService(events repository.LedgerStore, dir repository.Directory) *AuditService {
	return &AuditService{events: events, dir: dir}
}

// ValidateLedger produces the integrity report for one employee.
func (s *AuditService) ValidateLedger(ctx context.Context, employeeID string) (*models.IntegrityReport, error) {
	timer := time.Now()
	defer func() {
		metrics.AuditDuration.Observe(time.Since(timer).Seconds())
	}()

	if _, err := s.dir.GetEmployee(ctx, employeeID); err != nil {
		if errors.Is(err, repository.ErrEmployeeNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("employee %s not found", employeeID))
		}
		return nil, apperrors.Internal(err)
	}

	events, err := s.events.AllEvents(ctx, employeeID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	report := ledger.Audit(employeeID, events)
	for class, count := range report.Summary {
		if count > 0 {
			metrics.AuditViolations.WithLabelValues(string(class)).Add(float64(count))
		}
	}
	return report, nil
}
