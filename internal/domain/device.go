package domain

// Device is one simulator device as reported by the tool's list output.
type Device struct {
	UDID                 string `json:"udid" plist:"udid" validate:"required"`
	Name                 string `json:"name" plist:"name" validate:"required"`
	State                string `json:"state" plist:"state"`
	IsAvailable          bool   `json:"isAvailable" plist:"isAvailable"`
	DeviceTypeIdentifier string `json:"deviceTypeIdentifier" plist:"deviceTypeIdentifier"`
	DataPath             string `json:"dataPath,omitempty" plist:"dataPath"`
	LogPath              string `json:"logPath,omitempty" plist:"logPath"`
}

// Booted reports whether the device is currently running.
func (d Device) Booted() bool { return d.State == "Booted" }

// Runtime is one simulator OS runtime.
type Runtime struct {
	Identifier   string `json:"identifier" plist:"identifier" validate:"required"`
	Name         string `json:"name" plist:"name"`
	Version      string `json:"version" plist:"version"`
	BuildVersion string `json:"buildversion" plist:"buildversion"`
	IsAvailable  bool   `json:"isAvailable" plist:"isAvailable"`
}

// DeviceType is one installable simulator hardware model.
type DeviceType struct {
	Identifier    string `json:"identifier" plist:"identifier" validate:"required"`
	Name          string `json:"name" plist:"name"`
	ProductFamily string `json:"productFamily" plist:"productFamily"`
}

// Inventory is the tool's full device listing: devices keyed by runtime
// identifier, plus the known runtimes and device types. This is the decoded
// shape of the "list" subcommand's JSON output and the unit of comparison for
// the change feed.
type Inventory struct {
	Devices     map[string][]Device `json:"devices" validate:"required,dive,dive"`
	Runtimes    []Runtime           `json:"runtimes" validate:"dive"`
	DeviceTypes []DeviceType        `json:"devicetypes" validate:"dive"`
}

// AllDevices flattens the runtime-keyed device map, runtimes in stable order.
func (inv Inventory) AllDevices() []Device {
	var out []Device
	for _, rt := range inv.Runtimes {
		out = append(out, inv.Devices[rt.Identifier]...)
	}
	return out
}

// AppInfo is one installed application as reported by the tool's app listing,
// which arrives as a property list keyed by bundle identifier.
type AppInfo struct {
	BundleIdentifier string `plist:"CFBundleIdentifier" json:"CFBundleIdentifier" validate:"required"`
	BundleName       string `plist:"CFBundleName" json:"CFBundleName"`
	DisplayName      string `plist:"CFBundleDisplayName" json:"CFBundleDisplayName"`
	Executable       string `plist:"CFBundleExecutable" json:"CFBundleExecutable"`
	ApplicationType  string `plist:"ApplicationType" json:"ApplicationType"`
	Path             string `plist:"Path" json:"Path"`
}

// AppList is the decoded shape of the app-listing subcommand's output.
type AppList map[string]AppInfo
