package qemu

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Format identifies a disk or optical image format by content.
type Format string

const (
	FormatQCOW2 Format = "qcow2"
	FormatISO   Format = "iso9660"
	FormatRaw   Format = "raw"
)

// Magic bytes and signatures for image format detection.
var (
	// qcow2Magic is the magic at the start of QCOW2 files: "QFI" + 0xfb.
	// Reference: https://www.qemu.org/docs/master/interop/qcow2.html
	qcow2Magic = []byte{0x51, 0x46, 0x49, 0xfb}

	// isoMagic is the ISO9660 standard identifier "CD001" found in the
	// primary volume descriptor at byte offset 32769 (sector 16 + 1).
	// Reference: ECMA-119 section 8.3
	isoMagic = []byte("CD001")

	// mbrSignature is the boot sector signature 0x55 0xaa at offset 510
	// of bootable raw disks. GPT disks carry it too, in the protective
	// MBR.
	mbrSignature = []byte{0x55, 0xaa}
)

const isoMagicOffset = 32769

// DetectFormat detects the image format at path by reading magic
// bytes. Returns an error for files that are none of qcow2, ISO9660,
// or a bootable raw disk, which keeps arbitrary data files out of the
// catalog and out of qemu's -cdrom slot.
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return "", fmt.Errorf("file too small to be a valid image (< 4 bytes): %w", err)
	}
	if bytes.Equal(magic, qcow2Magic) {
		return FormatQCOW2, nil
	}

	// ISO9660 primary volume descriptor identifier.
	sig := make([]byte, len(isoMagic))
	if _, err := f.ReadAt(sig, isoMagicOffset); err == nil && bytes.Equal(sig, isoMagic) {
		return FormatISO, nil
	}

	// Bootable raw disk: MBR signature at the end of the first sector.
	bootSig := make([]byte, 2)
	if _, err := f.ReadAt(bootSig, 510); err != nil {
		return "", fmt.Errorf("file too small for a boot sector (< 512 bytes): %w", err)
	}
	if bytes.Equal(bootSig, mbrSignature) {
		return FormatRaw, nil
	}

	return "", fmt.Errorf("unrecognized image format: %s", path)
}
