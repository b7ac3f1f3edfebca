// Package monitoring turns a running network into a small web server for
// external inspection of flows and mass-balance audits.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/barneydobson/wsi/flow"
	"github.com/barneydobson/wsi/network"
)

// Monitor serves the state of a network over HTTP while a simulation runs.
type Monitor struct {
	net         *network.Network
	portNumber  int
	openBrowser bool

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	auditLock sync.Mutex
	lastAudit []auditRsp
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser opens the dashboard in the default browser once the server is
// listening.
func (m *Monitor) WithBrowser() *Monitor {
	m.openBrowser = true
	return m
}

// RegisterNetwork registers the network to be monitored.
func (m *Monitor) RegisterNetwork(n *network.Network) {
	m.net = n
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        flow.GetIDGenerator().Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// StartServer starts the monitor as a web server with a custom port if
// wanted.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()

	r.HandleFunc("/api/arcs", m.listArcs)
	r.HandleFunc("/api/arc/{name}", m.arcState)
	r.HandleFunc("/api/nodes", m.listNodes)
	r.HandleFunc("/api/audit", m.audit)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/component/{name}", m.listComponentDetails)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	if m.openBrowser {
		err = browser.OpenURL(url)
		dieOnErr(err)
	}

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

func (m *Monitor) listArcs(w http.ResponseWriter, _ *http.Request) {
	names := m.net.SortedArcNames()

	bytes, err := json.Marshal(names)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listNodes(w http.ResponseWriter, _ *http.Request) {
	names := []string{}
	for _, n := range m.net.Nodes() {
		names = append(names, n.Name())
	}

	bytes, err := json.Marshal(names)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type arcStateRsp struct {
	Name    string  `json:"name"`
	FlowIn  float64 `json:"flow_in"`
	FlowOut float64 `json:"flow_out"`
}

func (m *Monitor) arcState(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	a := m.net.Arc(name)
	if a == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rsp := arcStateRsp{
		Name:    a.Name(),
		FlowIn:  a.FlowIn(),
		FlowOut: a.FlowOut(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type auditRsp struct {
	Object     string           `json:"object"`
	Violations []flow.Violation `json:"violations"`
}

// RecordAudit caches audit results for serving. The run loop calls it at
// its audit point; the HTTP handler never walks the live network, so
// serving an audit cannot race with the simulation.
func (m *Monitor) RecordAudit(violations map[string][]flow.Violation) {
	rsp := []auditRsp{}
	for object, v := range violations {
		rsp = append(rsp, auditRsp{Object: object, Violations: v})
	}

	m.auditLock.Lock()
	defer m.auditLock.Unlock()

	m.lastAudit = rsp
}

func (m *Monitor) audit(w http.ResponseWriter, _ *http.Request) {
	m.auditLock.Lock()
	rsp := m.lastAudit
	m.auditLock.Unlock()

	if rsp == nil {
		rsp = []auditRsp{}
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) listComponentDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var component any
	if a := m.net.Arc(name); a != nil {
		component = a
	} else if n := m.net.Node(name); n != nil {
		component = n
	} else {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(component)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bytes, err := json.Marshal(m.progressBars)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
