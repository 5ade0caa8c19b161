package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/vaultkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     gRPC bind address (e.g., ":50051")
//	-k string     database driver: sqlite or pgx
//	-d string     database DSN
//	-i string     program id
//	-t duration   longest accepted request proof lifetime (e.g., "2m")
//	-r duration   expired proof pruning interval (e.g., "10m")
//	-l string     log level
//	-u string     S3 access key
//	-p string     S3 secret key
//	-b string     S3 bucket for receipts (empty disables)
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// os.Args is first filtered to the flags above with flagx.FilterArgs, so
// -c/-config and flags of other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-d", "-i", "-t", "-r", "-l", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver (sqlite or pgx)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ProgramID, "i", config.ProgramID, "program id")
	fs.DurationVar(&config.SignatureTTL, "t", config.SignatureTTL, "request proof lifetime")
	fs.DurationVar(&config.PruneInterval, "r", config.PruneInterval, "expired proof pruning interval")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 receipts bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
