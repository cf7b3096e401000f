package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a remote store address in format [host]:[port]
//	-d local database path (SQLite file)
//	-c/-config json file path with configs
//	-token access token for the remote store
//	-tenant tenant identifier
//	-branch branch identifier
//	-request-timeout remote request timeout (e.g., "15s")
//	-drain-interval outbox drain interval (e.g., "30s")
//	-feed-retry change feed resubscribe pause (e.g., "5s")
func ParseFlags() *StructuredConfig {
	var remoteAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var accessToken string
	var tenant, branch string
	var requestTimeout time.Duration
	var drainInterval time.Duration
	var feedRetry time.Duration

	flag.Var(&remoteAddress, "a", "Remote store address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Local database path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&accessToken, "token", "", "Remote store access token")
	flag.StringVar(&tenant, "tenant", "", "Tenant identifier")
	flag.StringVar(&branch, "branch", "", "Branch identifier")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 15s)")
	flag.DurationVar(&drainInterval, "drain-interval", 0, "Outbox drain interval (e.g., 30s)")
	flag.DurationVar(&feedRetry, "feed-retry", 0, "Change feed resubscribe pause (e.g., 5s)")

	flag.Parse()

	baseURL := ""
	if addr := remoteAddress.String(); addr != "" {
		baseURL = "http://" + addr
	}

	return &StructuredConfig{
		App: App{
			AccessToken: accessToken,
		},
		Remote: Remote{
			BaseURL:           baseURL,
			RequestTimeout:    requestTimeout,
			FeedRetryInterval: feedRetry,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Workers: Workers{
			DrainInterval: drainInterval,
		},
		Scope: ScopeConfig{
			Tenant: tenant,
			Branch: branch,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
