package core

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/project-sunbird/sunbird-deploy/poller"
)

// LookupFunc resolves a host name to addresses. Swappable in tests; nil
// means the default resolver.
type LookupFunc func(ctx context.Context, host string) ([]string, error)

// DNSCheck returns a readiness predicate that holds once the domain
// resolves to the expected address. Resolution errors (NXDOMAIN while the
// record propagates, flaky resolvers) surface as transient failures for the
// poller to absorb.
func DNSCheck(domain, expectedIP string, lookup LookupFunc) poller.Check {
	if lookup == nil {
		lookup = net.DefaultResolver.LookupHost
	}
	return func(ctx context.Context) (bool, string, error) {
		addrs, err := lookup(ctx, domain)
		if err != nil {
			return false, "", fmt.Errorf("lookup %s: %w", domain, err)
		}
		for _, a := range addrs {
			if a == expectedIP {
				return true, fmt.Sprintf("%s resolves to %s", domain, expectedIP), nil
			}
		}
		return false, fmt.Sprintf("%s resolves to [%s], want %s", domain, strings.Join(addrs, " "), expectedIP), nil
	}
}
