package context

// EnvAPIToken is the environment variable that overrides the API token set in
// the configuration file.
const EnvAPIToken = "STRAND_API_TOKEN"

// Environment is the interface to the process environment.
type Environment interface {
	Get(key string) string
	Set(key, value string) error
}
