// config/validate.go
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Warning areas.
const (
	AreaConfig   = "Config"
	AreaDatabase = "Database"
	AreaMail     = "M365 Config"
)

// Warning is a configuration problem worth showing before any work starts.
// Warnings never stop the program.
type Warning struct {
	Area    string
	Message string
}

func (w Warning) String() string {
	return w.Area + ": " + w.Message
}

// mountsFile lists mounted filesystems; tests point it elsewhere.
var mountsFile = "/proc/mounts"

var networkFSTypes = map[string]bool{
	"nfs":        true,
	"nfs4":       true,
	"cifs":       true,
	"smb":        true,
	"smbfs":      true,
	"smb3":       true,
	"fuse.sshfs": true,
}

// Validate checks that the configured paths are usable. It never fails;
// everything it finds is returned as a warning.
func Validate(cfg *Config) []Warning {
	warnings := append([]Warning(nil), cfg.loadWarnings...)

	switch cfg.Database.Driver {
	case "mysql":
		if cfg.Database.DSN == "" {
			warnings = append(warnings, Warning{AreaDatabase, fmt.Sprintf("driver is mysql but %s is empty", EnvDBDSN)})
		}
	default:
		if msg := checkDBPath(cfg.Database.Path); msg != "" {
			warnings = append(warnings, Warning{AreaDatabase, msg})
		}
		if IsNetworkPath(cfg.Database.Path) {
			warnings = append(warnings, Warning{AreaDatabase, fmt.Sprintf(
				"database is on network storage (%s). Ensure only one user writes at a time to avoid corruption.",
				cfg.Database.Path)})
		}
	}

	if msg := checkMailConfigPath(cfg.Mail.ConfigPath); msg != "" {
		warnings = append(warnings, Warning{AreaMail, msg})
	}
	return warnings
}

func checkDBPath(path string) string {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("database directory does not exist and will be created on first open: %s", dir)
	}
	if !dirWritable(dir) {
		return fmt.Sprintf("database directory is not writable: %s", dir)
	}

	if _, err := os.Stat(path); err == nil {
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return fmt.Sprintf("database file is not readable and writable: %s", path)
		}
		f.Close()
	}
	return ""
}

func checkMailConfigPath(path string) string {
	if _, err := os.Stat(path); err == nil {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Sprintf("mail config file is not readable: %s", path)
		}
		f.Close()
		return ""
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("mail config directory does not exist: %s", dir)
	}
	if !dirWritable(dir) {
		return fmt.Sprintf("mail config directory is not writable: %s", dir)
	}
	return ""
}

// dirWritable probes dir by creating and removing a scratch file.
func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".hh-write-check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// IsNetworkPath reports whether path looks like it lives on shared storage:
// a UNC path, or a mount whose filesystem type is a network one.
func IsNetworkPath(path string) bool {
	if strings.HasPrefix(path, `\\`) {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	abs = resolveExisting(abs)

	fsType, ok := mountTypeFor(abs)
	return ok && networkFSTypes[fsType]
}

// resolveExisting follows symlinks on the longest existing prefix of path.
func resolveExisting(path string) string {
	rest := ""
	for p := path; ; p = filepath.Dir(p) {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(resolved, rest)
		}
		if filepath.Dir(p) == p {
			return path
		}
		rest = filepath.Join(filepath.Base(p), rest)
	}
}

// mountTypeFor finds the filesystem type of the deepest mount point
// containing path.
func mountTypeFor(path string) (string, bool) {
	f, err := os.Open(mountsFile)
	if err != nil {
		return "", false
	}
	defer f.Close()

	best, bestType := "", ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mountPoint := unescapeMount(fields[1])
		if !underMount(path, mountPoint) {
			continue
		}
		if len(mountPoint) >= len(best) {
			best, bestType = mountPoint, fields[2]
		}
	}
	return bestType, best != ""
}

func underMount(path, mountPoint string) bool {
	if mountPoint == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == mountPoint || strings.HasPrefix(path, mountPoint+"/")
}

// unescapeMount decodes the octal escapes /proc/mounts uses for spaces and tabs.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
