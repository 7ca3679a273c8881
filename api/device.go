// Package api contains the "public" data types shared by the blob saver's
// profile sources, catalog client and provisioning planner.
package api

// DeviceProfile represents one registered device whose tickets are saved.
type DeviceProfile struct {
	// Name is a human readable label for the device. It is never used to
	// make decisions.
	Name string `yaml:"name"`

	// Identifier is the vendor device-type string, e.g. "iPhone14,5".
	Identifier string `yaml:"identifier"`

	// ECID is the unique hardware identifier, in hexadecimal.
	ECID string `yaml:"ecid"`

	// Generator is the hex nonce seed passed to the fetcher.
	Generator string `yaml:"generator"`

	// APNonce is the hex nonce the ticket is bound to.
	APNonce string `yaml:"apnonce"`

	// BasebandSerial is the baseband serial number, empty if none is recorded.
	BasebandSerial string `yaml:"baseband_serial"`

	// SavePath is the directory tickets for this device are written to,
	// unless a run-level override is given.
	SavePath string `yaml:"save_path"`
}

// FirmwareCandidate represents one firmware build listed for a device.
type FirmwareCandidate struct {
	// Version is the dotted marketing version, e.g. "17.0".
	Version string

	// BuildID is the build string, e.g. "21A329".
	BuildID string

	// BoardConfig identifies the hardware variant, in the case the catalog
	// supplied it.
	BoardConfig string

	// Signed is true while the vendor still issues tickets for this build.
	Signed bool
}

// BasebandMode says whether a plan requests a baseband ticket.
type BasebandMode int

const (
	// BasebandOmit asks the fetcher to skip the baseband ticket.
	BasebandOmit BasebandMode = iota
	// BasebandInclude asks for a baseband ticket using the device's serial.
	BasebandInclude
)

func (m BasebandMode) String() string {
	if m == BasebandInclude {
		return "include"
	}
	return "omit"
}

// Plan holds the resolved inputs to one fetcher invocation.
// Plans are never persisted.
type Plan struct {
	// Path is the file the fetcher is expected to produce.
	Path string
	// Args is the ordered argument vector, excluding the binary itself.
	Args []string
	// Baseband records the baseband decision the arguments were built from.
	Baseband BasebandMode
}
