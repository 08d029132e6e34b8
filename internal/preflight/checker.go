// Package preflight validates the local environment before compile and
// publish steps.
package preflight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gungunjain36/coractl/internal/envfile"
	"github.com/gungunjain36/coractl/internal/node"
)

// DefaultTimeout is the default timeout for fullnode calls.
const DefaultTimeout = 10 * time.Second

// DefaultMinBalance is the publish funding floor in octas (0.5 APT):
// enough for module publication gas on testnet.
const DefaultMinBalance = 50_000_000

// CheckName identifies a specific pre-flight check.
type CheckName string

const (
	// CheckEnvComplete verifies the managed environment keys are present.
	CheckEnvComplete CheckName = "env_complete"
	// CheckNodeReachable verifies the fullnode endpoint is reachable.
	CheckNodeReachable CheckName = "node_reachable"
	// CheckAccountFunded verifies the publisher account holds funds.
	CheckAccountFunded CheckName = "account_funded"
	// CheckModulePublished verifies the contract module is on chain.
	CheckModulePublished CheckName = "module_published"
)

// CheckResult represents the result of a single pre-flight check.
type CheckResult struct {
	Name    CheckName              `json:"name"`
	Passed  bool                   `json:"passed"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Request carries the parameters for a pre-flight run.
type Request struct {
	Env        *envfile.Env
	ModuleName string
	MinBalance uint64
}

// Response contains the results of all pre-flight checks.
type Response struct {
	OK     bool          `json:"ok"`
	Checks []CheckResult `json:"checks"`
}

// Checker runs pre-flight validation against a fullnode.
type Checker struct {
	client  *node.Client
	timeout time.Duration
}

// NewChecker creates a checker backed by the given fullnode client.
func NewChecker(client *node.Client) *Checker {
	return &Checker{
		client:  client,
		timeout: DefaultTimeout,
	}
}

// WithTimeout sets a custom timeout for fullnode calls.
func (c *Checker) WithTimeout(timeout time.Duration) *Checker {
	c.timeout = timeout
	return c
}

// RunChecks performs all checks in order. Network checks are skipped when
// the environment is incomplete: there is no address to look up.
func (c *Checker) RunChecks(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Env == nil {
		return nil, fmt.Errorf("invalid request: environment store is required")
	}
	if req.ModuleName == "" {
		return nil, fmt.Errorf("invalid request: module name is required")
	}

	minBalance := req.MinBalance
	if minBalance == 0 {
		minBalance = DefaultMinBalance
	}

	rpcCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response := &Response{
		OK:     true,
		Checks: make([]CheckResult, 0, 4),
	}

	envResult := c.checkEnvComplete(req.Env)
	response.Checks = append(response.Checks, envResult)
	if !envResult.Passed {
		response.OK = false
		return response, nil
	}

	nodeResult := c.checkNodeReachable(rpcCtx)
	response.Checks = append(response.Checks, nodeResult)
	if !nodeResult.Passed {
		response.OK = false
		return response, nil
	}

	publisher, _ := req.Env.Get(envfile.KeyPublisherAddress)
	fundedResult := c.checkAccountFunded(rpcCtx, publisher, minBalance)
	response.Checks = append(response.Checks, fundedResult)
	if !fundedResult.Passed {
		response.OK = false
	}

	moduleAddr, _ := req.Env.Get(envfile.KeyModuleAddress)
	moduleResult := c.checkModulePublished(rpcCtx, moduleAddr, req.ModuleName)
	response.Checks = append(response.Checks, moduleResult)
	if !moduleResult.Passed {
		response.OK = false
	}

	return response, nil
}

func (c *Checker) checkEnvComplete(env *envfile.Env) CheckResult {
	result := CheckResult{Name: CheckEnvComplete}

	required := []string{
		envfile.KeyPublisherAddress,
		envfile.KeyPublisherPrivateKey,
		envfile.KeyModuleAddress,
	}

	var missing []string
	for _, key := range required {
		if _, ok := env.Get(key); !ok {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		result.Passed = false
		result.Message = fmt.Sprintf("Missing keys in %s: %s", env.Path(), strings.Join(missing, ", "))
		result.Details = map[string]interface{}{
			"missing": missing,
		}
		return result
	}

	result.Passed = true
	result.Message = "All managed environment keys are set"
	return result
}

func (c *Checker) checkNodeReachable(ctx context.Context) CheckResult {
	result := CheckResult{Name: CheckNodeReachable}

	info, err := c.client.LedgerInfo(ctx)
	if err != nil {
		result.Passed = false
		result.Message = fmt.Sprintf("Failed to reach fullnode: %v", err)
		result.Details = map[string]interface{}{
			"error": err.Error(),
		}
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Fullnode reachable (chain %d, version %s)", info.ChainID, info.LedgerVersion)
	result.Details = map[string]interface{}{
		"chain_id":       info.ChainID,
		"ledger_version": info.LedgerVersion,
	}
	return result
}

func (c *Checker) checkAccountFunded(ctx context.Context, address string, minBalance uint64) CheckResult {
	result := CheckResult{Name: CheckAccountFunded}

	balance, err := c.client.AccountBalance(ctx, address)
	if err != nil {
		result.Passed = false
		result.Message = fmt.Sprintf("Failed to get publisher balance: %v", err)
		result.Details = map[string]interface{}{
			"error": err.Error(),
		}
		return result
	}

	result.Details = map[string]interface{}{
		"have_octas": balance,
		"need_octas": minBalance,
		"have_apt":   octasToAPTString(balance),
		"need_apt":   octasToAPTString(minBalance),
	}

	if balance < minBalance {
		result.Passed = false
		result.Message = fmt.Sprintf("Insufficient publisher balance: have %s APT, need %s APT (run 'coractl fund')",
			octasToAPTString(balance), octasToAPTString(minBalance))
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Publisher has sufficient balance: %s APT", octasToAPTString(balance))
	return result
}

func (c *Checker) checkModulePublished(ctx context.Context, address, moduleName string) CheckResult {
	result := CheckResult{Name: CheckModulePublished}

	module, err := c.client.AccountModule(ctx, address, moduleName)
	if err != nil {
		result.Passed = false
		result.Message = fmt.Sprintf("Failed to query module: %v", err)
		result.Details = map[string]interface{}{
			"error": err.Error(),
		}
		return result
	}

	if module == nil {
		result.Passed = false
		result.Message = fmt.Sprintf("Module %s is not published at %s (run 'coractl move publish')", moduleName, address)
		result.Details = map[string]interface{}{
			"module":  moduleName,
			"address": address,
		}
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("Module %s::%s is published", address, moduleName)
	return result
}

// octasToAPTString converts octas to a human-readable APT string.
func octasToAPTString(octas uint64) string {
	return fmt.Sprintf("%.4f", float64(octas)/1e8)
}
