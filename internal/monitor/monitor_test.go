package monitor

import (
	"errors"
	"testing"
)

const psOutput = `USER         PID %CPU %MEM      VSZ    RSS TTY      STAT START   TIME COMMAND
root           1  0.0  0.1   169452  11212 ?        Ss   Jan01   0:04 /sbin/init
u           4821  3.2  8.0  4822184 652340 ?       Sl   10:02   5:41 qemu-system-aarch64 -M virt,highmem=on -drive file=/home/u/.config/aviary/machines/vm1.qcow2,if=none,cache=writethrough,id=hd0
u           4999  0.0  0.0    11132   2400 pts/1    S+   10:05   0:00 tail -f /var/log/syslog
`

func TestParseProcessTable(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantPid int
		wantErr error
	}{
		{
			name:    "image path in use",
			path:    "/home/u/.config/aviary/machines/vm1.qcow2",
			wantPid: 4821,
		},
		{
			name:    "idle image",
			path:    "/home/u/.config/aviary/machines/vm2.qcow2",
			wantErr: ErrNoProcess,
		},
		{
			name: "header never matches",
			// COMMAND appears only in the header line.
			path:    "COMMAND",
			wantErr: ErrNoProcess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid, err := parseProcessTable([]byte(psOutput), tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("parseProcessTable() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProcessTable() error = %v", err)
			}
			if pid != tt.wantPid {
				t.Errorf("pid = %d, want %d", pid, tt.wantPid)
			}
		})
	}
}

func TestParseProcessTableFirstMatchWins(t *testing.T) {
	out := `USER PID %CPU %MEM VSZ RSS TTY STAT START TIME COMMAND
u 100 0.0 0.0 0 0 ? S 10:00 0:00 qemu-system-aarch64 /imgs/d1.qcow2
u 200 0.0 0.0 0 0 ? S 10:01 0:00 qemu-system-aarch64 /imgs/d1.qcow2
`
	pid, err := parseProcessTable([]byte(out), "/imgs/d1.qcow2")
	if err != nil {
		t.Fatalf("parseProcessTable() error = %v", err)
	}
	if pid != 100 {
		t.Errorf("pid = %d, want first match 100", pid)
	}
}

func TestParseProcessTableEmpty(t *testing.T) {
	if _, err := parseProcessTable(nil, "/imgs/d1.qcow2"); !errors.Is(err, ErrNoProcess) {
		t.Errorf("parseProcessTable(nil) error = %v, want ErrNoProcess", err)
	}
}
