package history

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Repository layout.
const (
	// StatisticsPath is the parent of the history container.
	StatisticsPath = "/var/statistics"

	// ContainerPath is the node holding all history entries.
	ContainerPath = StatisticsPath + "/achistory"

	// NodeTypeUnstructured is used for the statistics node and for entries.
	NodeTypeUnstructured = "nt:unstructured"

	// NodeTypeOrderedFolder is the node type of the container.
	NodeTypeOrderedFolder = "sling:OrderedFolder"

	// EntryPrefix starts the name of every history entry.
	EntryPrefix = "history_"

	// LogFileName holds the message log of an entry.
	LogFileName = "actool.log"

	// VerboseLogFileName holds the verbose message log of an entry.
	VerboseLogFileName = "actool-verbose.log"

	// LogMimeType is the content type of both log files.
	LogMimeType = "text/plain"

	// ResourceType is the rendering resource type set on every entry.
	ResourceType = "/apps/netcentric/actool/components/historyRenderer"

	// InstallationDateLayout formats the installationDate property.
	InstallationDateLayout = "Mon Jan 02 15:04:05 MST 2006"
)

// Entry property names.
const (
	PropertyInstallationDate = "installationDate"
	PropertyTimestamp        = "timestamp"
	PropertySuccess          = "success"
	PropertyExecutionTime    = "executionTime"
	PropertyInstalledFrom    = "installedFrom"
	PropertyResourceType     = "sling:resourceType"

	// PropertyMessages is the legacy single-property log. Deprecated: read
	// only, never written.
	PropertyMessages = "messages"
)

// Origin identifies what triggered an installation run.
type Origin int

const (
	// OriginAPI is a direct API call. It is the default.
	OriginAPI Origin = iota
	// OriginScheduler is a scheduled or otherwise automated run.
	OriginScheduler
	// OriginJMX is a run triggered through the management interface.
	OriginJMX
	// OriginWebConsole is a run triggered from the web console.
	OriginWebConsole
)

// String returns the origin's name.
func (o Origin) String() string {
	switch o {
	case OriginAPI:
		return "api"
	case OriginScheduler:
		return "scheduler"
	case OriginJMX:
		return "jmx"
	case OriginWebConsole:
		return "webconsole"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Suffix returns the entry name suffix for the origin.
func (o Origin) Suffix() string {
	switch o {
	case OriginScheduler, OriginJMX, OriginWebConsole:
		return "_via_" + o.String()
	default:
		return "_via_api"
	}
}

// ParseOrigin parses an origin name as returned by String.
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "api":
		return OriginAPI, nil
	case "scheduler":
		return OriginScheduler, nil
	case "jmx":
		return OriginJMX, nil
	case "webconsole":
		return OriginWebConsole, nil
	default:
		return OriginAPI, fmt.Errorf("unknown origin %q (must be api, scheduler, jmx or webconsole)", s)
	}
}

// InstallationLog collects the outcome of one installation run. It is safe
// for concurrent use while the run is in progress.
type InstallationLog struct {
	// Origin is what triggered the run.
	Origin Origin

	// PackageName is set when the run was triggered by installing a content
	// package. A non-blank name takes precedence over Origin.
	PackageName string

	// ConfigFiles are the names of the configuration files that were applied.
	ConfigFiles []string

	// InstallationDate is when the run started.
	InstallationDate time.Time

	// Success reports whether the run completed without errors.
	Success bool

	// ExecutionTime is how long the run took.
	ExecutionTime time.Duration

	mu       sync.Mutex
	messages []string
	verbose  []string
}

// NewInstallationLog returns a log for a run started now.
func NewInstallationLog(origin Origin) *InstallationLog {
	return &InstallationLog{
		Origin:           origin,
		InstallationDate: time.Now(),
	}
}

// AddMessage records a message in both the message and the verbose log.
func (l *InstallationLog) AddMessage(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	l.verbose = append(l.verbose, msg)
}

// AddVerboseMessage records a message in the verbose log only.
func (l *InstallationLog) AddVerboseMessage(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, msg)
}

// AddError records an error in both logs and marks the run as failed.
func (l *InstallationLog) AddError(msg string, err error) {
	line := "ERROR: " + msg
	if err != nil {
		line += ": " + err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, line)
	l.verbose = append(l.verbose, line)
	l.Success = false
}

// MessageHistory returns the message log, one message per line.
func (l *InstallationLog) MessageHistory() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.messages, "\n")
}

// VerboseMessageHistory returns the verbose log, one message per line.
func (l *InstallationLog) VerboseMessageHistory() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.verbose, "\n")
}

// EntryHandle identifies a persisted history entry.
type EntryHandle struct {
	Name      string
	Path      string
	Timestamp int64
}

// Entry is the decoded metadata of a stored history entry.
type Entry struct {
	Name             string `json:"name"`
	Path             string `json:"path"`
	InstallationDate string `json:"installation_date"`
	Timestamp        int64  `json:"timestamp"`
	Success          bool   `json:"success"`
	ExecutionTime    int64  `json:"execution_time_ms"`
	InstalledFrom    string `json:"installed_from,omitempty"`
	Origin           string `json:"origin"`
	Legacy           bool   `json:"legacy,omitempty"` // carries the messages property
}

// Status returns "ok" for a successful run and "failed" otherwise.
func (e *Entry) Status() string {
	if e.Success {
		return "ok"
	}
	return "failed"
}

// EntryName returns the name of an entry created at t. A non-blank package
// name yields the install hook suffix; otherwise the origin decides.
// Characters of the package name that cannot appear in a node name are
// replaced by "_".
func EntryName(t time.Time, origin Origin, packageName string) string {
	name := EntryPrefix + strconv.FormatInt(t.UnixMilli(), 10)
	if strings.TrimSpace(packageName) != "" {
		return name + "_via_hook_in_" + escapeName(packageName)
	}
	return name + origin.Suffix()
}

// escapeName replaces path separators, the characters reserved in content
// repository names and control characters with "_".
func escapeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:[]|*`, r), unicode.IsControl(r):
			return '_'
		}
		return r
	}, s)
}

// IsEntryName reports whether name is a history entry name.
func IsEntryName(name string) bool {
	return strings.HasPrefix(name, EntryPrefix)
}

// OriginTag returns the part of an entry name after "_via_", or "" for
// names without an origin tag.
func OriginTag(name string) string {
	_, tag, ok := strings.Cut(name, "_via_")
	if !ok {
		return ""
	}
	return tag
}

// FormatInstallationDate formats t for the installationDate property.
func FormatInstallationDate(t time.Time) string {
	return t.Format(InstallationDateLayout)
}
