package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chrisuehlinger/typeddom/probe"
)

const page = `<!DOCTYPE html><html><head><title>Checkout</title></head><body>
<form id="checkout" class="panel">
  <button id="go" accesskey="g" data-step="pay">Pay</button>
  <p id="hint" lang="fr">Cliquez</p>
</form>
</body></html>`

type testState struct {
	*globalState
	out  *bytes.Buffer
	hook *test.Hook
}

func newTestState(t *testing.T) *testState {
	t.Helper()
	logger, hook := test.NewNullLogger()
	out := new(bytes.Buffer)
	return &testState{
		globalState: &globalState{
			stdout: out,
			stderr: new(bytes.Buffer),
			logger: logger,
			config: viper.New(),
		},
		out:  out,
		hook: hook,
	}
}

func (ts *testState) run(args ...string) error {
	c := newRootCommand(ts.globalState)
	c.cmd.SetArgs(args)
	return c.cmd.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInspectYAML(t *testing.T) {
	ts := newTestState(t)
	file := writeFile(t, "page.html", page)

	require.NoError(t, ts.run("inspect", file, "--selector", "#go"))

	var r probe.Report
	require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
	assert.True(t, strings.HasPrefix(r.URL, "file:///"), r.URL)
	assert.True(t, strings.HasSuffix(r.URL, "/page.html"), r.URL)
	assert.Equal(t, "Checkout", r.Title)
	require.Len(t, r.Elements, 1)

	button := r.Elements[0]
	assert.Equal(t, "html > body > form#checkout.panel > button#go", button.Path)
	assert.Equal(t, "Alt+Shift+G", button.AccessKeyLabel)
	assert.Equal(t, map[string]string{"step": "pay"}, button.Dataset)
	assert.Equal(t, 0, button.TabIndex)
}

func TestInspectTextFromEnvironment(t *testing.T) {
	t.Setenv("DOMPROBE_FORMAT", "text")
	t.Setenv("DOMPROBE_ACCESS_KEY_MODIFIERS", "Ctrl")
	t.Setenv("DOMPROBE_URL", "https://shop.example/checkout")
	ts := newTestState(t)
	file := writeFile(t, "page.html", page)

	require.NoError(t, ts.run("inspect", file))

	out := ts.out.String()
	assert.Contains(t, out, "url: https://shop.example/checkout\n")
	assert.Contains(t, out, "selector: body *\n")
	assert.Contains(t, out, "3 element(s)\n")
	assert.Contains(t, out, "html > body > form#checkout.panel > button#go\n")
	assert.Contains(t, out, "  accessKeyLabel: Ctrl+G\n")
	assert.Contains(t, out, "  lang: fr\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestInspectConfigFile(t *testing.T) {
	ts := newTestState(t)
	file := writeFile(t, "page.html", page)
	cfg := writeFile(t, "domprobe.yaml", "selector: p\nformat: text\nurl: about:blank\n")

	require.NoError(t, ts.run("inspect", file, "--config", cfg, "--format", "yaml"))

	var r probe.Report
	require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r), "flags win over the config file")
	assert.Equal(t, "p", r.Selector)
	assert.Equal(t, "about:blank", r.URL)
	require.Len(t, r.Elements, 1)
	assert.Equal(t, "fr", r.Elements[0].Lang)
}

func TestInspectScript(t *testing.T) {
	ts := newTestState(t)
	file := writeFile(t, "page.html", page)
	script := writeFile(t, "setup.js", `
		const go = document.getElementById("go");
		go.title = "ready";
		go.dataset.step = "done";
		go.hidden = true;
		document.body.addEventListener("probe", () => { throw new Error("boom") });
		document.body.dispatchEvent(new Event("probe"));
		console.log("setup done");
	`)

	require.NoError(t, ts.run("inspect", file, "--script", script, "--selector", "button"))

	var r probe.Report
	require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
	require.Len(t, r.Elements, 1)
	assert.Equal(t, "ready", r.Elements[0].Title)
	assert.Equal(t, "done", r.Elements[0].Dataset["step"])
	assert.True(t, r.Elements[0].Hidden)
	assert.Nil(t, r.Elements[0].Box)

	var warned bool
	for _, e := range ts.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "error raised while the script ran" {
			warned = true
			assert.Contains(t, e.Data[logrus.ErrorKey].(error).Error(), "boom")
		}
	}
	assert.True(t, warned, "listener errors are reported")
}

func TestInspectURLWithPageScripts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "probe-test", r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/shop/checkout":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><head><title>Remote</title>
<script src="app.js" defer></script>
<script src="gone.js"></script>
<script>document.getElementById("go").dataset.stage = "inline";</script>
</head><body><button id="go">Pay</button></body></html>`))
		case "/shop/app.js":
			w.Header().Set("Content-Type", "text/javascript")
			w.Write([]byte(`const go = document.getElementById("go"); go.title = go.dataset.stage + "+deferred";`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()
	ts := newTestState(t)

	require.NoError(t, ts.run("inspect", server.URL+"/shop/checkout",
		"--run-scripts", "--user-agent", "probe-test", "--selector", "#go"))

	var r probe.Report
	require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
	assert.Equal(t, server.URL+"/shop/checkout", r.URL)
	assert.Equal(t, "Remote", r.Title)
	require.Len(t, r.Elements, 1)
	assert.Equal(t, "inline+deferred", r.Elements[0].Title)

	var failed []string
	for _, e := range ts.hook.AllEntries() {
		if e.Message == "page script failed to load" {
			failed = append(failed, e.Data["script"].(string))
		}
	}
	assert.Equal(t, []string{server.URL + "/shop/gone.js"}, failed)
}

func TestInspectCacheDir(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<p id=\"menu\" title=\"caf\xe9\">Menu</p>"))
	}))
	defer server.Close()
	cache := t.TempDir()

	for i := 0; i < 2; i++ {
		ts := newTestState(t)
		require.NoError(t, ts.run("inspect", server.URL+"/menu.html", "--cache-dir", cache, "--selector", "#menu"))

		var r probe.Report
		require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
		require.Len(t, r.Elements, 1)
		assert.Equal(t, "café", r.Elements[0].Title)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestInspectDataURL(t *testing.T) {
	ts := newTestState(t)

	require.NoError(t, ts.run("inspect", "data:text/plain,<p title=x>hi</p>", "--selector", "p"))

	var r probe.Report
	require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
	require.Len(t, r.Elements, 1)
	assert.Equal(t, "x", r.Elements[0].Title)

	var warned bool
	for _, e := range ts.hook.AllEntries() {
		warned = warned || e.Message == "document is not served as HTML"
	}
	assert.True(t, warned)
}

func TestInspectSettle(t *testing.T) {
	file := writeFile(t, "page.html", page)
	script := writeFile(t, "later.js", `
		setTimeout(() => { document.getElementById("go").title = "soon" }, 500);
		setTimeout(() => { document.getElementById("go").title = "much later" }, 5000);
	`)

	for settle, want := range map[string]string{"0s": "", "1s": "soon", "10s": "much later"} {
		t.Run(settle, func(t *testing.T) {
			ts := newTestState(t)
			require.NoError(t, ts.run("inspect", file, "--script", script, "--selector", "#go", "--settle", settle))

			var r probe.Report
			require.NoError(t, yaml.Unmarshal(ts.out.Bytes(), &r))
			require.Len(t, r.Elements, 1)
			assert.Equal(t, want, r.Elements[0].Title)
		})
	}
}

func TestInspectVerbose(t *testing.T) {
	ts := newTestState(t)
	file := writeFile(t, "page.html", page)

	require.NoError(t, ts.run("inspect", file, "-v", "--log-format", "json"))

	assert.Equal(t, logrus.DebugLevel, ts.logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, ts.logger.Formatter)
	var messages []string
	for _, e := range ts.hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "document loaded")
	assert.Contains(t, messages, "inspected")
}

func TestInspectErrors(t *testing.T) {
	file := writeFile(t, "page.html", page)
	broken := writeFile(t, "broken.js", "let = ;")

	for name, tc := range map[string]struct {
		args []string
		want string
	}{
		"no file":        {[]string{"inspect"}, "accepts 1 arg(s)"},
		"missing file":   {[]string{"inspect", filepath.Join(t.TempDir(), "nope.html")}, "read document"},
		"bad format":     {[]string{"inspect", file, "--format", "xml"}, `unsupported format "xml"`},
		"bad selector":   {[]string{"inspect", file, "--selector", "p["}, "SyntaxError"},
		"bad script":     {[]string{"inspect", file, "--script", broken}, "run script"},
		"missing script": {[]string{"inspect", file, "--script", "nope.js"}, "read script"},
		"bad scheme":     {[]string{"inspect", "ftp://files.example/page.html"}, "unsupported URL scheme"},
		"missing config": {[]string{"inspect", file, "--config", "nope.yaml"}, "read config"},
		"bad log format": {[]string{"inspect", file, "--log-format", "xml"}, `unsupported log format "xml"`},
	} {
		t.Run(name, func(t *testing.T) {
			err := newTestState(t).run(tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestGetColor(t *testing.T) {
	assert.Equal(t, "plain", getColor(true, 31).Sprint("plain"))
	assert.Equal(t, "\x1b[31mred\x1b[0m", getColor(false, 31).Sprint("red"))
}
