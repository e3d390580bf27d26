// Package slurm runs squeue and turns its JSON output into raw records.
//
// Client.Query executes `squeue --json` with a per-attempt timeout and
// retries failed attempts with exponential backoff. The payload is decoded
// with json.Number so job ids and epoch seconds keep integer precision, and
// the value shapes introduced in Slurm 23.02 are flattened:
//
//	"job_state": ["RUNNING"]                                   -> "RUNNING"
//	"start_time": {"set": true, "infinite": false, "number": 1} -> int64(1)
//	"end_time":   {"set": false, ...}                          -> nil
//
// CheckVersion gates startup on Slurm 21.08, the first release whose squeue
// accepts --json.
package slurm
