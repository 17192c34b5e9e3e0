package static

import "math/rand"

var desktopAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36 Edg/130.0.0.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.6 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14.6; rv:132.0) Gecko/20100101 Firefox/132.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:132.0) Gecko/20100101 Firefox/132.0",
}

// AgentPool hands out realistic browser user agents
type AgentPool struct {
	agents []string
}

// DefaultAgents returns the built-in desktop browser pool
func DefaultAgents() *AgentPool {
	return &AgentPool{agents: desktopAgents}
}

// NewAgentPool creates a pool from agents. An empty list falls back to the defaults.
func NewAgentPool(agents ...string) *AgentPool {
	if len(agents) == 0 {
		return DefaultAgents()
	}
	return &AgentPool{agents: agents}
}

// Random picks an agent uniformly
func (p *AgentPool) Random() string {
	return p.agents[rand.Intn(len(p.agents))]
}
