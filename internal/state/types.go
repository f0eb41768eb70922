package state

// Disk describes one virtual block device image.
type Disk struct {
	Name   string `yaml:"name"`
	SizeGB int    `yaml:"size_gb"`
}

// Machine describes one bootable virtual machine image. Port is the
// host-side TCP port forwarded to the guest's SSH port; aviary enforces
// that it is unique across machines so two guests never race on the
// same host bind.
type Machine struct {
	Name   string `yaml:"name"`
	Port   int    `yaml:"port"`
	SizeGB int    `yaml:"size_gb"`
}

// Snapshot describes a copy-on-write overlay whose backing file is the
// base machine's image at creation time. Port and SizeGB are copied
// from the base; a snapshot listens on its base's forwarded port.
type Snapshot struct {
	Name   string `yaml:"name"`
	Base   string `yaml:"base"`
	Port   int    `yaml:"port"`
	SizeGB int    `yaml:"size_gb"`
}
