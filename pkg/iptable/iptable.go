package iptable

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"sync"

	"github.com/henderiw/collector/pkg/rangeset"
	"go4.org/netipx"
)

// IPTable tracks the claimed addresses of an IPv4 range.
type IPTable interface {
	Claim(addr string) error
	ClaimRange(r string) error
	Release(addr string) error
	ReleaseRange(r string) error

	Count() uint64
	Has(addr string) bool

	IsFree(addr string) bool
	FindFree() (netip.Addr, error)

	Claimed() []netipx.IPRange
	Free() []netipx.IPRange
}

type ipSet = rangeset.RangeSet[uint32]

func New(from, to netip.Addr) (IPTable, error) {
	ipRange := netipx.IPRangeFrom(from, to)
	if !ipRange.IsValid() {
		return nil, fmt.Errorf("invalid ip range from %s to %s", from, to)
	}
	if !from.Is4() {
		return nil, fmt.Errorf("ip range %s is not an ipv4 range", ipRange)
	}
	return &ipTable{
		m:       new(sync.RWMutex),
		ipRange: ipRange,
		bounds:  toInterval(ipRange),
	}, nil
}

type ipTable struct {
	m       *sync.RWMutex
	ipRange netipx.IPRange
	bounds  rangeset.Interval[uint32]
	claimed ipSet
}

func (r *ipTable) Claim(addr string) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	id := ipToInt(claimIP)
	if r.claimed.Contains(id) {
		return fmt.Errorf("claim failed ip %s already claimed", addr)
	}
	r.claimed = r.claimed.Add(rangeset.Single(id))
	return nil
}

// ClaimRange claims every address of r, e.g. "10.0.0.1-10.0.0.5". It fails
// without claiming anything when one of them is already claimed.
func (r *ipTable) ClaimRange(s string) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(s)
	if err != nil {
		return err
	}
	if r.claimed.Union(rangeset.FromInterval(rng)).Size() != r.claimed.Size()+rng.Size() {
		return fmt.Errorf("claim failed range %s overlaps claimed ips", s)
	}
	r.claimed = r.claimed.Add(rng)
	return nil
}

func (r *ipTable) Release(addr string) error {
	r.m.Lock()
	defer r.m.Unlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return err
	}
	r.claimed = r.claimed.Remove(rangeset.Single(ipToInt(claimIP)))
	return nil
}

func (r *ipTable) ReleaseRange(s string) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(s)
	if err != nil {
		return err
	}
	r.claimed = r.claimed.Remove(rng)
	return nil
}

func (r *ipTable) Count() uint64 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.claimed.Size()
}

func (r *ipTable) Has(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return r.claimed.Contains(ipToInt(claimIP))
}

func (r *ipTable) IsFree(addr string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	claimIP, err := r.validateIP(addr)
	if err != nil {
		return false
	}
	return !r.claimed.Contains(ipToInt(claimIP))
}

func (r *ipTable) FindFree() (netip.Addr, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	id, ok := r.free().Min()
	if !ok {
		return netip.Addr{}, fmt.Errorf("no free ip found in %s", r.ipRange)
	}
	return intToIP(id), nil
}

func (r *ipTable) Claimed() []netipx.IPRange {
	r.m.RLock()
	defer r.m.RUnlock()

	return toIPRanges(r.claimed)
}

func (r *ipTable) Free() []netipx.IPRange {
	r.m.RLock()
	defer r.m.RUnlock()

	return toIPRanges(r.free())
}

func (r *ipTable) free() ipSet {
	return rangeset.FromInterval(r.bounds).Difference(r.claimed)
}

func (r *ipTable) validateIP(addr string) (netip.Addr, error) {
	claimIP, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	if !r.ipRange.Contains(claimIP) {
		return netip.Addr{}, fmt.Errorf("ip address %s, does not fit in the range from %s to %s", addr, r.ipRange.From(), r.ipRange.To())
	}
	return claimIP, nil
}

func (r *ipTable) validateRange(s string) (rangeset.Interval[uint32], error) {
	ipRange, err := netipx.ParseIPRange(s)
	if err != nil {
		return rangeset.Interval[uint32]{}, fmt.Errorf("ip range %s is invalid: %w", s, err)
	}
	if !r.ipRange.Contains(ipRange.From()) || !r.ipRange.Contains(ipRange.To()) {
		return rangeset.Interval[uint32]{}, fmt.Errorf("ip range %s, does not fit in the range from %s to %s", s, r.ipRange.From(), r.ipRange.To())
	}
	return toInterval(ipRange), nil
}

func toInterval(ipRange netipx.IPRange) rangeset.Interval[uint32] {
	// IPRange guarantees From <= To
	return rangeset.MustInterval(ipToInt(ipRange.From()), ipToInt(ipRange.To()))
}

func toIPRanges(s ipSet) []netipx.IPRange {
	out := make([]netipx.IPRange, 0, s.Len())
	for _, r := range s.Intervals() {
		out = append(out, netipx.IPRangeFrom(intToIP(r.First()), intToIP(r.Last())))
	}
	return out
}

func ipToInt(ip netip.Addr) uint32 {
	b := ip.As4()
	return binary.BigEndian.Uint32(b[:])
}

func intToIP(id uint32) netip.Addr {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], id)
	return netip.AddrFrom4(b)
}
