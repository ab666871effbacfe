package gwclient

import "net"

// pickFreePort asks the OS for an unused TCP port by binding to :0,
// reading back the assigned port, and releasing it immediately. The
// generator subprocess is then told to listen on that exact port — this
// is how "port 0 means OS-assigned" is implemented when the port consumer
// is an external process we can't hand a listening socket to directly.
func pickFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
