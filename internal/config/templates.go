package config

import (
	"fmt"
	"os"
)

// Template returns a commented config file with every key at its default.
func Template() string {
	return template
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const template = `# static scheduler address; leave empty to broadcast for it
scheduler = ""
max_operands = 1048576

[discovery]
broadcast_addr = "127.255.255.255:31337"
timeout = "5s"
ttl = 0

[session]
connect_timeout = "5s"
read_timeout = "15s"
write_timeout = "15s"
hello = ""
query_results_op = 2
max_chain_steps = 4096
max_items = 1048576

[worker]
id = ""
count = 1
idle_delay = "1s"
max_cycles = 0
metrics_addr = ""
`
