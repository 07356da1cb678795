package report

import "github.com/denisbrodbeck/machineid"

const unknownHostId = "unknown-host"

func hostId() string {
	machineId, err := machineid.ID()
	if err != nil {
		return unknownHostId
	}
	return machineId
}
