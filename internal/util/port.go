package util

import (
	"fmt"
	"net"
)

// PortAvailable 端口当前是否可监听
func PortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}

// FindAvailablePort 从 startPort 起依次尝试 attempts 个端口，返回第一个可用端口
func FindAvailablePort(startPort, attempts int) (int, error) {
	for i := 0; i < attempts; i++ {
		port := startPort + i
		if port > 65535 {
			break
		}
		if PortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}
