package participant

import (
	"fmt"
	"strings"
)

// ValidateLot checks lot invariants. A sold lot must have been acquired on
// or before its sale date.
func ValidateLot(lot Lot) error {
	if lot.Surface <= 0 {
		return fmt.Errorf("lot %s: %w", lot.ID, ErrInvalidSurface)
	}
	if lot.SoldDate != nil && lot.SoldDate.Before(lot.AcquiredDate) {
		return fmt.Errorf("lot %s: %w", lot.ID, ErrLotDateOrder)
	}
	return nil
}

// Validate checks participant invariants.
func (p Participant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	if p.NotaryRatePct < 0 || p.LoanRatePct < 0 {
		return fmt.Errorf("participant %s: %w", p.Name, ErrNegativeRate)
	}
	if p.ExitDate != nil && p.ExitDate.Before(p.EntryDate) {
		return fmt.Errorf("participant %s: %w", p.Name, ErrExitBeforeEntry)
	}
	for _, lot := range p.Lots {
		if err := ValidateLot(lot); err != nil {
			return fmt.Errorf("participant %s: %w", p.Name, err)
		}
	}
	return nil
}

// ValidateAll checks a full participant set, including name uniqueness.
func ValidateAll(participants []Participant) error {
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("participant %s: %w", p.Name, ErrDuplicateName)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
