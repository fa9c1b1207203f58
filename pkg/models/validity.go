package models

import (
	"time"

	"github.com/lamassuiot/pkix-fixtures/pkg/errs"
)

type ValidityType string

var (
	Duration ValidityType = "Duration"
	Time     ValidityType = "Time"
)

// Validity selects exactly one of two issuance validity modes: a day count
// relative to issuance time, or an explicit NotBefore/NotAfter window.
type Validity struct {
	Type      ValidityType `mapstructure:"type"`
	Days      int          `mapstructure:"days"`
	NotBefore time.Time    `mapstructure:"not_before"`
	NotAfter  time.Time    `mapstructure:"not_after"`
}

func NewDurationValidity(days int) Validity {
	return Validity{Type: Duration, Days: days}
}

func NewTimeValidity(notBefore, notAfter time.Time) Validity {
	return Validity{Type: Time, NotBefore: notBefore.UTC(), NotAfter: notAfter.UTC()}
}

func (v Validity) Validate() error {
	switch v.Type {
	case Duration:
		if v.Days <= 0 || !v.NotBefore.IsZero() || !v.NotAfter.IsZero() {
			return errs.ErrValidityVariant
		}
	case Time:
		if v.Days != 0 || v.NotBefore.IsZero() || v.NotAfter.IsZero() {
			return errs.ErrValidityVariant
		}
		if !v.NotAfter.After(v.NotBefore) {
			return errs.ErrValidityVariant
		}
	default:
		return errs.ErrValidityVariant
	}
	return nil
}

// ToolkitTime renders an instant the way the external toolkit expects its
// -startdate/-enddate arguments: YYMMDDHHMMSSZ, always UTC.
func ToolkitTime(t time.Time) string {
	return t.UTC().Format("060102150405") + "Z"
}

type CRLValidityType string

var (
	CRLDays  CRLValidityType = "Days"
	CRLHours CRLValidityType = "Hours"
)

// CRLValidity selects the CRL nextUpdate window as either days or hours.
type CRLValidity struct {
	Type  CRLValidityType `mapstructure:"type"`
	Days  int             `mapstructure:"days"`
	Hours int             `mapstructure:"hours"`
}

func NewCRLDaysValidity(days int) CRLValidity {
	return CRLValidity{Type: CRLDays, Days: days}
}

func NewCRLHoursValidity(hours int) CRLValidity {
	return CRLValidity{Type: CRLHours, Hours: hours}
}

func (v CRLValidity) Validate() error {
	switch v.Type {
	case CRLDays:
		if v.Days <= 0 || v.Hours != 0 {
			return errs.ErrCRLValidityVariant
		}
	case CRLHours:
		if v.Hours <= 0 || v.Days != 0 {
			return errs.ErrCRLValidityVariant
		}
	default:
		return errs.ErrCRLValidityVariant
	}
	return nil
}
