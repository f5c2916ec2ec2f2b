// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package nativebridge

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

var (
	elfMagic      = []byte{0x7f, 'E', 'L', 'F'}
	machoMagic64  = []byte{0xcf, 0xfa, 0xed, 0xfe}
	machoMagic32  = []byte{0xce, 0xfa, 0xed, 0xfe}
	machoFatMagic = []byte{0xca, 0xfe, 0xba, 0xbe}
	peMagic       = []byte{'M', 'Z'}
)

var elfMachines = map[string]elf.Machine{
	"386":     elf.EM_386,
	"amd64":   elf.EM_X86_64,
	"arm":     elf.EM_ARM,
	"arm64":   elf.EM_AARCH64,
	"loong64": elf.EM_LOONGARCH,
	"ppc64le": elf.EM_PPC64,
	"riscv64": elf.EM_RISCV,
	"s390x":   elf.EM_S390,
}

var machoCPUs = map[string]macho.Cpu{
	"amd64": macho.CpuAmd64,
	"arm64": macho.CpuArm64,
}

var peMachines = map[string]uint16{
	"386":   pe.IMAGE_FILE_MACHINE_I386,
	"amd64": pe.IMAGE_FILE_MACHINE_AMD64,
	"arm64": pe.IMAGE_FILE_MACHINE_ARM64,
}

// checkFormat verifies that path is a shared library the running process can
// map. Failures wrap ErrIncompatible.
func checkFormat(path string) error {
	return checkFormatFor(runtime.GOOS, runtime.GOARCH, path)
}

func checkFormatFor(goos, goarch, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMapFailed, err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return fmt.Errorf("%w: file too short", ErrIncompatible)
	}

	switch {
	case bytes.Equal(magic[:], elfMagic):
		if goos == "windows" || goos == "darwin" || goos == "ios" {
			return fmt.Errorf("%w: ELF object on %s", ErrIncompatible, goos)
		}
		return checkELF(f, goarch)
	case bytes.Equal(magic[:], machoMagic64), bytes.Equal(magic[:], machoMagic32), bytes.Equal(magic[:], machoFatMagic):
		if goos != "darwin" && goos != "ios" {
			return fmt.Errorf("%w: Mach-O object on %s", ErrIncompatible, goos)
		}
		return checkMachO(f, goarch, bytes.Equal(magic[:], machoFatMagic))
	case bytes.Equal(magic[:2], peMagic):
		if goos != "windows" {
			return fmt.Errorf("%w: PE object on %s", ErrIncompatible, goos)
		}
		return checkPE(f, goarch)
	default:
		return fmt.Errorf("%w: unrecognized object format", ErrIncompatible)
	}
}

func checkELF(r io.ReaderAt, goarch string) error {
	ef, err := elf.NewFile(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if ef.Type != elf.ET_DYN {
		return fmt.Errorf("%w: ELF type %v is not a shared object", ErrIncompatible, ef.Type)
	}
	if want, ok := elfMachines[goarch]; ok && ef.Machine != want {
		return fmt.Errorf("%w: built for %v, process is %s", ErrIncompatible, ef.Machine, goarch)
	}
	return nil
}

func checkMachO(r io.ReaderAt, goarch string, fat bool) error {
	want, known := machoCPUs[goarch]
	if fat {
		ff, err := macho.NewFatFile(r)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIncompatible, err)
		}
		if !known {
			return nil
		}
		for _, arch := range ff.Arches {
			if arch.Cpu == want {
				return checkMachOType(arch.File)
			}
		}
		return fmt.Errorf("%w: universal binary has no %s slice", ErrIncompatible, goarch)
	}
	mf, err := macho.NewFile(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if known && mf.Cpu != want {
		return fmt.Errorf("%w: built for %v, process is %s", ErrIncompatible, mf.Cpu, goarch)
	}
	return checkMachOType(mf)
}

func checkMachOType(mf *macho.File) error {
	if mf.Type != macho.TypeDylib && mf.Type != macho.TypeBundle {
		return fmt.Errorf("%w: Mach-O type %v is not a dynamic library", ErrIncompatible, mf.Type)
	}
	return nil
}

func checkPE(r io.ReaderAt, goarch string) error {
	pf, err := pe.NewFile(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if pf.Characteristics&pe.IMAGE_FILE_DLL == 0 {
		return fmt.Errorf("%w: PE image is not a DLL", ErrIncompatible)
	}
	if want, ok := peMachines[goarch]; ok && pf.Machine != want {
		return fmt.Errorf("%w: built for machine %#x, process is %s", ErrIncompatible, pf.Machine, goarch)
	}
	return nil
}

// dlopen reports format problems only as text (glibc, musl, dyld).
var incompatibleDlerrors = []string{
	"wrong ELF class",
	"invalid ELF header",
	"ELF file",
	"file too short",
	"Exec format error",
	"cannot dynamically load executable",
	"incompatible architecture",
	"not a mach-o file",
}

// classifyDlerror wraps a dlopen failure in ErrIncompatible when the
// message names a format or architecture mismatch, ErrMapFailed otherwise.
func classifyDlerror(err error) error {
	msg := err.Error()
	for _, s := range incompatibleDlerrors {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %v", ErrIncompatible, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrMapFailed, err)
}
