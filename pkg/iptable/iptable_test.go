package iptable

import (
	"net/netip"
	"testing"

	"github.com/tj/assert"
	"go4.org/netipx"
)

func TestNew(t *testing.T) {
	_, err := New(netip.MustParseAddr("10.0.0.20"), netip.MustParseAddr("10.0.0.10"))
	assert.Error(t, err)

	_, err = New(netip.MustParseAddr("2001:db8::1"), netip.MustParseAddr("2001:db8::ff"))
	assert.Error(t, err)

	_, err = New(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("2001:db8::ff"))
	assert.Error(t, err)
}

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		ipRange           string
		newSuccessEntries []string
		newFailedEntries  []string
		expectedEntries   uint64
		expectedFree      string
	}{

		"Normal": {
			ipRange:           "10.0.0.10-10.0.0.20",
			newSuccessEntries: []string{"10.0.0.10", "10.0.0.11"},
			newFailedEntries:  []string{"10.0.0.21", "10.0.0.10", "invalid"},
			expectedEntries:   2,
			expectedFree:      "10.0.0.12",
		},
		"Full": {
			ipRange:           "192.168.0.0-192.168.0.1",
			newSuccessEntries: []string{"192.168.0.1", "192.168.0.0"},
			newFailedEntries:  []string{"192.168.0.2"},
			expectedEntries:   2,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {

			ipRange, err := netipx.ParseIPRange(tc.ipRange)
			assert.NoError(t, err)

			r, err := New(ipRange.From(), ipRange.To())
			assert.NoError(t, err)

			for _, addr := range tc.newSuccessEntries {
				err := r.Claim(addr)
				assert.NoError(t, err)

			}
			for _, addr := range tc.newFailedEntries {
				err := r.Claim(addr)
				assert.Error(t, err)
			}
			for _, addr := range tc.newSuccessEntries {
				if !r.Has(addr) {
					t.Errorf("%s expecting success claim entry: %s\n", name, addr)
				}
			}
			if r.Count() != tc.expectedEntries {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectedEntries, r.Count())
			}

			a, err := r.FindFree()
			if tc.expectedFree == "" {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedFree, a.String())
		})
	}
}

func TestClaimRange(t *testing.T) {
	r, err := New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.1.255"))
	assert.NoError(t, err)

	assert.NoError(t, r.ClaimRange("10.0.0.0-10.0.0.255"))
	assert.NoError(t, r.Claim("10.0.1.10"))
	assert.Equal(t, uint64(257), r.Count())

	assert.Error(t, r.ClaimRange("10.0.1.0-10.0.1.10"))
	assert.Error(t, r.ClaimRange("10.0.1.0-10.0.2.0"))
	assert.Error(t, r.ClaimRange("not-a-range"))
	assert.Equal(t, uint64(257), r.Count())

	assert.Equal(t, []netipx.IPRange{
		netipx.MustParseIPRange("10.0.0.0-10.0.0.255"),
		netipx.MustParseIPRange("10.0.1.10-10.0.1.10"),
	}, r.Claimed())
	assert.Equal(t, []netipx.IPRange{
		netipx.MustParseIPRange("10.0.1.0-10.0.1.9"),
		netipx.MustParseIPRange("10.0.1.11-10.0.1.255"),
	}, r.Free())

	a, err := r.FindFree()
	assert.NoError(t, err)
	assert.Equal(t, "10.0.1.0", a.String())
}

func TestRelease(t *testing.T) {
	r, err := New(netip.MustParseAddr("10.0.0.0"), netip.MustParseAddr("10.0.0.255"))
	assert.NoError(t, err)
	assert.NoError(t, r.ClaimRange("10.0.0.0-10.0.0.255"))

	assert.NoError(t, r.ReleaseRange("10.0.0.16-10.0.0.31"))
	assert.NoError(t, r.Release("10.0.0.100"))
	assert.Error(t, r.Release("10.0.1.0"))
	assert.Equal(t, uint64(256-17), r.Count())

	assert.True(t, r.IsFree("10.0.0.20"))
	assert.True(t, r.IsFree("10.0.0.100"))
	assert.False(t, r.IsFree("10.0.0.101"))
	assert.False(t, r.IsFree("10.0.1.0"))

	a, err := r.FindFree()
	assert.NoError(t, err)
	assert.Equal(t, "10.0.0.16", a.String())
}
