// Package templatefile loads chart-of-accounts templates from disk.
// Templates are JSON or YAML files with a top-level "accounts" list.
package templatefile

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/openbooks/ledger_core_app/internal/apperrors"
	portssvc "github.com/openbooks/ledger_core_app/internal/core/ports/services"
	"github.com/openbooks/ledger_core_app/internal/dto"
)

type chartTemplate struct {
	Accounts []dto.AccountSpec `mapstructure:"accounts"`
}

// Loader reads chart templates via viper, so both JSON and YAML layouts work.
type Loader struct{}

// NewLoader creates a template loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ portssvc.ChartTemplateLoader = (*Loader)(nil)

// Load reads and parses the template at path. Unreadable or malformed
// templates surface as apperrors.ErrInvalidData.
func (l *Loader) Load(path string) ([]dto.AccountSpec, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
			fmt.Sprintf("chart template %s is not readable: %v", path, err))
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
			fmt.Sprintf("chart template %s is not well-formed: %v", path, err))
	}

	var tpl chartTemplate
	if err := v.Unmarshal(&tpl); err != nil {
		return nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
			fmt.Sprintf("chart template %s has an unexpected shape: %v", path, err))
	}

	seen := make(map[string]struct{}, len(tpl.Accounts))
	for i, spec := range tpl.Accounts {
		if spec.Code == "" {
			return nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
				fmt.Sprintf("chart template %s: account at index %d has no code", path, i))
		}
		if _, dup := seen[spec.Code]; dup {
			return nil, apperrors.NewDetailed(apperrors.ErrInvalidData,
				fmt.Sprintf("chart template %s: duplicate account code %s", path, spec.Code))
		}
		seen[spec.Code] = struct{}{}
	}

	return tpl.Accounts, nil
}
