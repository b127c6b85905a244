package scan

import "strings"

// Service describes the service detected on a port. Empty strings mean
// the field was not reported by the scan.
type Service struct {
	Name      string
	Product   string
	Version   string
	ExtraInfo string
	Tunnel    string
}

// Equal reports whether two services are the same for diffing purposes.
// Tunnel is presentation-only and does not participate in equality.
func (s Service) Equal(other Service) bool {
	return s.Name == other.Name &&
		s.Product == other.Product &&
		s.Version == other.Version &&
		s.ExtraInfo == other.ExtraInfo
}

// NameString returns the SERVICE column value, for example "ssl/http".
func (s Service) NameString() string {
	parts := make([]string, 0, 2)
	if s.Tunnel != "" {
		parts = append(parts, s.Tunnel)
	}
	if s.Name != "" {
		parts = append(parts, s.Name)
	}
	return strings.Join(parts, "/")
}

// VersionString returns the VERSION column value, for example
// "Apache httpd 2.4.52 (Ubuntu)".
func (s Service) VersionString() string {
	parts := make([]string, 0, 3)
	if s.Product != "" {
		parts = append(parts, s.Product)
	}
	if s.Version != "" {
		parts = append(parts, s.Version)
	}
	if s.ExtraInfo != "" {
		parts = append(parts, "("+s.ExtraInfo+")")
	}
	return strings.Join(parts, " ")
}
