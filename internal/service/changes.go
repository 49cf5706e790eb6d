package service

import (
	"reflect"

	"github.com/r3labs/diff/v3"

	"github.com/mmynk/wildpay/internal/models"
)

// expenditureChanges lists the edited fields between two versions of an
// expenditure, e.g. ["amount", "contributors"]. Each field appears once.
// A Differ keeps state between calls, so each comparison gets its own.
func expenditureChanges(before, after *models.Expenditure) ([]string, error) {
	differ, err := diff.NewDiffer(
		diff.CustomValueDiffers(payerDiffer{}),
		diff.SliceOrdering(false),
	)
	if err != nil {
		return nil, err
	}

	changelog, err := differ.Diff(before, after)
	if err != nil {
		return nil, err
	}

	var fields []string
	seen := make(map[string]bool)
	for _, change := range changelog {
		if len(change.Path) == 0 || seen[change.Path[0]] {
			continue
		}
		seen[change.Path[0]] = true
		fields = append(fields, change.Path[0])
	}
	return fields, nil
}

var payerType = reflect.TypeOf(models.Payer{})

// payerDiffer compares Payer values as a whole; its fields are unexported.
type payerDiffer struct{}

func (payerDiffer) Match(a, b reflect.Value) bool {
	return a.IsValid() && b.IsValid() && a.Type() == payerType && b.Type() == payerType
}

func (payerDiffer) Diff(_ diff.DiffType, _ diff.DiffFunc, cl *diff.Changelog, path []string, a, b reflect.Value, _ interface{}) error {
	pa := a.Interface().(models.Payer)
	pb := b.Interface().(models.Payer)
	if pa != pb {
		cl.Add(diff.UPDATE, path, pa.String(), pb.String())
	}
	return nil
}

// InsertParentDiffer is a no-op; a payer has no nested values.
func (payerDiffer) InsertParentDiffer(func(path []string, a, b reflect.Value, p interface{}) error) {}
