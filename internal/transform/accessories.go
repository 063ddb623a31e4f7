package transform

import (
	"fmt"

	"github.com/rgehrsitz/dealopt/internal/domain"
)

// AddWatch adds a watch line. An empty model means bring-your-own.
type AddWatch struct {
	Model domain.ModelID
}

func (t *AddWatch) Name() string { return "add_watch" }

func (t *AddWatch) Description() string {
	if t.Model == "" {
		return "Add a watch line (own device)"
	}
	return fmt.Sprintf("Add a watch line with a new %s", t.Model)
}

func (t *AddWatch) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *AddWatch) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	watch := domain.WatchLine{Device: domain.DeviceBYOD}
	if t.Model != "" {
		watch = domain.WatchLine{Device: domain.DeviceNew, Model: domain.Model(string(t.Model))}
	}
	modified.AccessoryLines.Watches = append(modified.AccessoryLines.Watches, watch)
	return modified, nil
}

// AddTablet adds a tablet line. An empty model means bring-your-own.
type AddTablet struct {
	Model    domain.ModelID
	DataType domain.DataType
}

func (t *AddTablet) Name() string { return "add_tablet" }

func (t *AddTablet) Description() string {
	if t.Model == "" {
		return fmt.Sprintf("Add a %s tablet line (own device)", t.dataType())
	}
	return fmt.Sprintf("Add a %s tablet line with a new %s", t.dataType(), t.Model)
}

func (t *AddTablet) dataType() domain.DataType {
	if t.DataType == "" {
		return domain.DataUnlimited
	}
	return t.DataType
}

func (t *AddTablet) Validate(base *domain.CustomerConfiguration) error {
	if err := requireBase(t.Name(), base); err != nil {
		return err
	}
	switch t.dataType() {
	case domain.DataUnlimited, domain.DataPartial:
		return nil
	}
	return NewTransformError(t.Name(), "validate", fmt.Sprintf("unknown data type %q", t.DataType), nil)
}

func (t *AddTablet) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	tablet := domain.TabletLine{Device: domain.DeviceBYOD, DataType: t.dataType()}
	if t.Model != "" {
		tablet.Device = domain.DeviceNew
		tablet.Model = domain.Model(string(t.Model))
	}
	modified.AccessoryLines.Tablets = append(modified.AccessoryLines.Tablets, tablet)
	return modified, nil
}

// SetHomeInternet adds or removes home internet
type SetHomeInternet struct {
	Enabled bool
}

func (t *SetHomeInternet) Name() string { return "set_home_internet" }

func (t *SetHomeInternet) Description() string {
	if t.Enabled {
		return "Add home internet"
	}
	return "Remove home internet"
}

func (t *SetHomeInternet) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *SetHomeInternet) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.AccessoryLines.HomeInternet = t.Enabled
	return modified, nil
}

// ClearAccessories removes every watch, tablet and home internet line
type ClearAccessories struct{}

func (t *ClearAccessories) Name() string { return "clear_accessories" }

func (t *ClearAccessories) Description() string { return "Remove all accessory lines" }

func (t *ClearAccessories) Validate(base *domain.CustomerConfiguration) error {
	return requireBase(t.Name(), base)
}

func (t *ClearAccessories) Apply(base *domain.CustomerConfiguration) (*domain.CustomerConfiguration, error) {
	modified := base.DeepCopy()
	modified.AccessoryLines = domain.AccessoryLines{}
	return modified, nil
}
