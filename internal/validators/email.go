package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const dnsTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the address's domain resolves to a mail
// exchanger or at least an address record. It guards signup against typo
// domains, not against disposable addresses.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), dnsTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
