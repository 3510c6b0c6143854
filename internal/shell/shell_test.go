package shell

import (
	"bytes"
	"context"
	"io"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/thebtf/clustershell/internal/client"
	"github.com/thebtf/clustershell/internal/connection"
	"github.com/thebtf/clustershell/internal/session"
)

// stubCluster is a canned ClusterClient. Fields left nil produce zero-value
// successes.
type stubCluster struct {
	infoErr      error
	info         client.ClusterInfo
	health       client.ClusterHealth
	healthErr    error
	mappings     map[string]client.IndexMappings
	mappingsErr  error
	createAck    bool
	createErr    error
	deleteAck    bool
	deleteErr    error
	stats        *client.IndexStatsContainer
	statsOK      bool
	statsErr     error
	node         *client.Node
	nodeErr      error
	infoCalls    int
	createCalls  int
	deleteCalls  int
	lastSettings client.IndexSettings
}

func (c *stubCluster) ClusterInfo(context.Context) (*client.ClusterInfo, error) {
	c.infoCalls++
	if c.infoErr != nil {
		return nil, c.infoErr
	}
	info := c.info
	return &info, nil
}

func (c *stubCluster) ClusterHealth(context.Context) (*client.ClusterHealth, error) {
	if c.healthErr != nil {
		return nil, c.healthErr
	}
	health := c.health
	return &health, nil
}

func (c *stubCluster) Mappings(context.Context) (map[string]client.IndexMappings, error) {
	return c.mappings, c.mappingsErr
}

func (c *stubCluster) CreateIndex(_ context.Context, _ string, settings client.IndexSettings) (bool, error) {
	c.createCalls++
	c.lastSettings = settings
	return c.createAck, c.createErr
}

func (c *stubCluster) DeleteIndex(context.Context, string) (bool, error) {
	c.deleteCalls++
	return c.deleteAck, c.deleteErr
}

func (c *stubCluster) IndexStats(context.Context, string) (*client.IndexStatsContainer, bool, error) {
	return c.stats, c.statsOK, c.statsErr
}

func (c *stubCluster) NodeInfo(context.Context, string) (*client.Node, error) {
	return c.node, c.nodeErr
}

// scriptReader feeds canned lines to interactive prompts.
type scriptReader struct {
	lines   []string
	prompts []string
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

type ShellSuite struct {
	suite.Suite
	out      *bytes.Buffer
	reader   *scriptReader
	sessions *session.Registry
	store    *connection.Store
	stub     *stubCluster
	sh       *Shell
}

func TestShellSuite(t *testing.T) {
	suite.Run(t, new(ShellSuite))
}

func (s *ShellSuite) SetupTest() {
	store, err := connection.NewStore(s.T().TempDir())
	require.NoError(s.T(), err)
	for _, name := range []string{"c1", "c2"} {
		added, err := store.Add(&connection.Record{Name: name, Host: "localhost", Port: 9200})
		require.NoError(s.T(), err)
		require.True(s.T(), added)
	}

	s.out = &bytes.Buffer{}
	s.reader = &scriptReader{}
	s.sessions = session.NewRegistry()
	s.store = store
	s.stub = &stubCluster{
		info: client.ClusterInfo{ClusterName: "my-cluster", Version: client.Version{Number: "5.3.0"}},
	}

	s.sh = New(Options{
		Console:  NewConsole(s.out, s.reader),
		Sessions: s.sessions,
		Store:    store,
		Clients:  func(*connection.Record) ClusterClient { return s.stub },
		Encrypt:  connection.Encrypt,
	})
}

func (s *ShellSuite) execute(line string) {
	s.sh.Execute(context.Background(), line)
}

// connectWithIndex connects to c1, scopes the session to an index, and
// clears the captured output so tests only see their own command.
func (s *ShellSuite) connectWithIndex(index string) {
	s.execute("connect c1")
	require.True(s.T(), s.sessions.Current().Connected())
	s.sessions.Current().SetCurrentIndex(index)
	s.out.Reset()
}

func (s *ShellSuite) TestConnect_Succeeds() {
	s.execute("connect c1")

	sess := s.sessions.Current()
	require.True(s.T(), sess.Connected())
	assert.Equal(s.T(), "c1", sess.Connection().Name)
	assert.Contains(s.T(), s.out.String(), "Connected to cluster 'my-cluster' (version 5.3.0)")
	assert.True(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestConnect_UnknownConnection() {
	s.execute("connect nope")

	assert.Contains(s.T(), s.out.String(), "Connection 'nope' does not exist")
	assert.False(s.T(), s.sessions.Current().Connected())
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestConnect_AlreadyOnConnection() {
	s.execute("connect c1")
	require.True(s.T(), s.sh.PromptState().OK())
	connAfterFirst := s.sessions.Current().Connection()
	s.out.Reset()

	s.execute("connect c1")

	assert.Contains(s.T(), s.out.String(), "Already on connection 'c1'")
	assert.False(s.T(), s.sh.PromptState().OK())
	// State is unchanged from after the first call.
	assert.Same(s.T(), connAfterFirst, s.sessions.Current().Connection())
}

func (s *ShellSuite) TestConnect_RollsBackWhenConfirmationFails() {
	// Establish a connection and a current index first.
	s.execute("connect c1")
	sess := s.sessions.Current()
	sess.SetCurrentIndex("my-index")
	prevConn := sess.Connection()

	s.stub.infoErr = client.ErrUnknownServer
	s.execute("connect c2")

	// The failed switch restored the exact previous pair.
	assert.Same(s.T(), prevConn, sess.Connection())
	assert.Equal(s.T(), "my-index", sess.CurrentIndex())
	assert.Contains(s.T(), s.out.String(), "Unknown error received from the server")
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestConnect_RollbackToDisconnected() {
	s.stub.infoErr = client.ErrBadCredentials
	s.execute("connect c1")

	sess := s.sessions.Current()
	assert.False(s.T(), sess.Connected())
	assert.Empty(s.T(), sess.CurrentIndex())
	assert.Contains(s.T(), s.out.String(), "Bad credentials")
}

func (s *ShellSuite) TestConnectThenDisconnect() {
	s.execute("connect c1")
	sess := s.sessions.Current()
	sess.SetCurrentIndex("my-index")

	s.execute("disconnect")

	assert.False(s.T(), sess.Connected())
	assert.Empty(s.T(), sess.CurrentIndex())
	assert.Contains(s.T(), s.out.String(), "Disconnected from 'http://localhost:9200'")
	assert.True(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestDisconnect_UnavailableWithoutConnection() {
	s.execute("disconnect")

	assert.Contains(s.T(), s.out.String(), "Command 'disconnect' is not available")
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestConnection_NoneSet() {
	s.execute("connection")

	assert.Contains(s.T(), s.out.String(), "No connection is set")
	assert.True(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestConnection_ShowsClusterAndURL() {
	s.execute("connect c1")
	s.out.Reset()

	s.execute("connection")

	assert.Contains(s.T(), s.out.String(), "Connected to 'my-cluster' at 'http://localhost:9200' (version 5.3.0)")
}

func (s *ShellSuite) TestUnknownCommand() {
	s.execute("frobnicate")

	assert.Contains(s.T(), s.out.String(), "Unknown command 'frobnicate'")
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestUse_SetsCurrentIndex() {
	s.stub.mappings = map[string]client.IndexMappings{
		"my-index": {Mappings: map[string]json.RawMessage{"event": nil, "metric": nil}},
	}
	s.execute("connect c1")
	s.out.Reset()

	s.execute("use my-index")

	assert.Contains(s.T(), s.out.String(), "Now using 'my-index'. Index has 2 types.")
	assert.Equal(s.T(), "my-index", s.sessions.Current().CurrentIndex())
}

func (s *ShellSuite) TestUse_UnknownIndex() {
	s.stub.mappings = map[string]client.IndexMappings{}
	s.execute("connect c1")
	s.out.Reset()

	s.execute("use nope")

	assert.Contains(s.T(), s.out.String(), "No index named 'nope' was found")
	assert.Empty(s.T(), s.sessions.Current().CurrentIndex())
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestCurrentIndex_UnavailableWithoutIndex() {
	s.execute("connect c1")
	s.out.Reset()

	s.execute("current-index")

	assert.Contains(s.T(), s.out.String(), "Command 'current-index' is not available")
}

func (s *ShellSuite) TestCreateIndex() {
	s.stub.createAck = true
	s.execute("connect c1")
	s.out.Reset()

	s.execute("create-index --name new-index --shards 2 --replicas 1")

	assert.Contains(s.T(), s.out.String(), "Created index 'new-index'")
	assert.Equal(s.T(), client.IndexSettings{NumberOfShards: 2, NumberOfReplicas: 1}, s.stub.lastSettings)
}

func (s *ShellSuite) TestCreateIndex_DefaultSettings() {
	s.stub.createAck = true
	s.execute("connect c1")

	s.execute("create-index --name new-index")

	assert.Equal(s.T(), client.IndexSettings{NumberOfShards: 5, NumberOfReplicas: 1}, s.stub.lastSettings)
}

func (s *ShellSuite) TestCreateIndex_NotAcknowledged() {
	s.stub.createAck = false
	s.execute("connect c1")
	s.out.Reset()

	s.execute("create-index --name existing-index")

	assert.Contains(s.T(), s.out.String(), "Could not create index 'existing-index'")
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestDeleteIndex_ConfirmationMismatchAborts() {
	s.connectWithIndex("my-index")
	s.reader.lines = []string{"wrong-name"}

	s.execute("delete-index")

	assert.Contains(s.T(), s.out.String(), "Aborting")
	assert.Equal(s.T(), "my-index", s.sessions.Current().CurrentIndex())
	assert.Zero(s.T(), s.stub.deleteCalls)
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestDeleteIndex_ConfirmedAndAcknowledged() {
	s.connectWithIndex("my-index")
	s.stub.deleteAck = true
	s.reader.lines = []string{"my-index"}

	s.execute("delete-index")

	assert.Contains(s.T(), s.out.String(), "Deleted index 'my-index'")
	assert.Empty(s.T(), s.sessions.Current().CurrentIndex())
	assert.Equal(s.T(), 1, s.stub.deleteCalls)
	assert.True(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestDeleteIndex_NotAcknowledged() {
	s.connectWithIndex("my-index")
	s.stub.deleteAck = false
	s.reader.lines = []string{"my-index"}

	s.execute("delete-index")

	assert.Contains(s.T(), s.out.String(), "Could not delete index 'my-index'")
	assert.Equal(s.T(), "my-index", s.sessions.Current().CurrentIndex())
}

func (s *ShellSuite) TestStats() {
	s.connectWithIndex("my-index")
	s.stub.stats = &client.IndexStatsContainer{
		Primaries: client.IndexStats{Docs: client.IndexDocs{Count: 41, Deleted: 3}},
	}
	s.stub.statsOK = true

	s.execute("stats")

	assert.Contains(s.T(), s.out.String(), "Documents: 41 (3 deleted)")
}

func (s *ShellSuite) TestHealth() {
	s.stub.health = client.ClusterHealth{Status: "green", NumberOfNodes: 3, NumberOfDataNodes: 2}
	s.execute("connect c1")
	s.out.Reset()

	s.execute("health")

	out := s.out.String()
	assert.Contains(s.T(), out, "The cluster status is")
	assert.Contains(s.T(), out, "it has 3 nodes (where 2 node(s) are data nodes)")
}

func (s *ShellSuite) TestNode() {
	s.stub.node = &client.Node{
		Name: "node-1",
		OS: client.NodeOS{
			CPU: client.NodeCPU{Percent: 12},
			Memory: client.NodeMemory{
				UsedPercent: 60,
				UsedInBytes: 4800000000,
				FreeInBytes: 3200000000,
			},
		},
	}
	s.execute("connect c1")
	s.out.Reset()

	s.execute("node node-1")

	out := s.out.String()
	assert.Contains(s.T(), out, "CPU usage: 12%")
	assert.Contains(s.T(), out, "Memory usage: 60%")
	assert.Contains(s.T(), out, "Memory used: 4.8 GB")
	assert.Contains(s.T(), out, "Memory free: 3.2 GB")
}

func (s *ShellSuite) TestNode_NotFound() {
	s.stub.nodeErr = &client.NodeNotFoundError{Name: "ghost"}
	s.execute("connect c1")
	s.out.Reset()

	s.execute("node ghost")

	assert.Contains(s.T(), s.out.String(), "No node named 'ghost' was found")
	assert.False(s.T(), s.sh.PromptState().OK())
}

func (s *ShellSuite) TestSessionCommands() {
	s.execute("session-add work")
	assert.Contains(s.T(), s.out.String(), "Switched to session 'work'")
	assert.Equal(s.T(), "work", s.sessions.Current().Name())

	s.out.Reset()
	s.execute("session-add work")
	assert.Contains(s.T(), s.out.String(), "Session 'work' already exists")

	s.out.Reset()
	s.execute("session-add")
	assert.Contains(s.T(), s.out.String(), "Switched to session 'session1'")

	s.out.Reset()
	s.execute("session-remove session1")
	assert.Contains(s.T(), s.out.String(), "You can't remove the session you are currently working with")

	s.out.Reset()
	s.execute("session default")
	assert.Contains(s.T(), s.out.String(), "Switched to 'default'")

	s.out.Reset()
	s.execute("session default")
	assert.Contains(s.T(), s.out.String(), "You are already on session 'default'")

	s.out.Reset()
	s.execute("session-remove session1")
	assert.Contains(s.T(), s.out.String(), "Removed session 'session1'")

	s.out.Reset()
	s.execute("session-remove session1")
	assert.Contains(s.T(), s.out.String(), "Session 'session1' does not exist")
}

func (s *ShellSuite) TestSessionIsolation() {
	// Each session keeps its own connection and index.
	s.execute("connect c1")
	s.sessions.Current().SetCurrentIndex("my-index")

	s.execute("session-add other")
	assert.False(s.T(), s.sessions.Current().Connected())

	s.execute("session default")
	assert.Equal(s.T(), "c1", s.sessions.Current().Connection().Name)
	assert.Equal(s.T(), "my-index", s.sessions.Current().CurrentIndex())
}

func (s *ShellSuite) TestConnectionAdd_EncryptsPassword() {
	s.reader.lines = []string{"changeme"}

	s.execute("connection-add --name secured --host es.example.com --port 9200 --username elastic")

	assert.Contains(s.T(), s.out.String(), "Added connection 'secured'")

	rec, ok := s.store.Get("secured")
	require.True(s.T(), ok)
	assert.Equal(s.T(), "elastic", rec.Username)
	require.NotEmpty(s.T(), rec.Password)
	assert.NotEqual(s.T(), "changeme", rec.Password)

	decrypted, err := connection.Decrypt("elastic", rec.Password)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "changeme", decrypted)
}

func (s *ShellSuite) TestConnectionAdd_Duplicate() {
	s.execute("connection-add --name c1 --host localhost --port 9200")

	assert.Contains(s.T(), s.out.String(), "Connection 'c1' already exists")
	assert.False(s.T(), s.sh.PromptState().OK())
}
