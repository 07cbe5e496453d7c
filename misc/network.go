package misc

import (
	"net"

	"github.com/juju/errors"
)

// GetLocalAddress finds the first non-loopback IPv4 address on this device
func GetLocalAddress() (string, error) {
	networkInterfaces, err := net.Interfaces()
	if err != nil {
		return "", errors.Annotate(err, "failed to find network interface on this device")
	}

	for _, elt := range networkInterfaces {
		if elt.Flags&net.FlagLoopback != 0 || elt.Flags&net.FlagUp == 0 {
			continue
		}
		address, err := elt.Addrs()
		if err != nil {
			return "", errors.Annotatef(err, "failed to get an address from network interface %s", elt.Name)
		}
		for _, addr := range address {
			if ip, ok := addr.(*net.IPNet); ok {
				if ip4 := ip.IP.To4(); len(ip4) == net.IPv4len {
					return ip4.String(), nil
				}
			}
		}
	}

	return "", errors.New("failed to find a non-loopback interface with valid address on this device")
}
