package scan

import (
	"cmp"
	"fmt"
	"slices"
)

// AddrType identifies the kind of address attached to a host.
type AddrType int

// Address types in display order: IPv4 sorts before IPv6, which sorts
// before MAC.
const (
	AddrIPv4 AddrType = iota
	AddrIPv6
	AddrMAC
)

// String returns the nmap XML addrtype attribute value.
func (t AddrType) String() string {
	switch t {
	case AddrIPv4:
		return "ipv4"
	case AddrIPv6:
		return "ipv6"
	case AddrMAC:
		return "mac"
	default:
		return "unknown"
	}
}

// Address is a host address: an address type tag plus its string form.
// Addresses are comparable values and may be used as map keys.
type Address struct {
	Type AddrType
	Addr string
}

// NewAddress builds an Address from an nmap addrtype attribute value.
func NewAddress(addrType, addr string) (Address, error) {
	switch addrType {
	case "ipv4":
		return Address{Type: AddrIPv4, Addr: addr}, nil
	case "ipv6":
		return Address{Type: AddrIPv6, Addr: addr}, nil
	case "mac":
		return Address{Type: AddrMAC, Addr: addr}, nil
	default:
		return Address{}, fmt.Errorf("unknown address type %q", addrType)
	}
}

// String returns the bare address text.
func (a Address) String() string {
	return a.Addr
}

// CompareAddresses orders addresses by type rank, then lexicographically
// by their string form.
func CompareAddresses(a, b Address) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	return cmp.Compare(a.Addr, b.Addr)
}

// SortedAddresses returns a sorted copy of the given addresses.
func SortedAddresses(addrs []Address) []Address {
	sorted := slices.Clone(addrs)
	slices.SortFunc(sorted, CompareAddresses)
	return sorted
}
