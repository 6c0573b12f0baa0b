package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPython_SubprocessShellTrue(t *testing.T) {
	content := "import subprocess\nsubprocess.run(cmd, shell=True)\n"
	findings := ScanPython("run.py", content)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryPythonShellInjection, findings[0].Category)
	assert.Equal(t, 2, findings[0].Line)
}

func TestScanPython_PickleLoad(t *testing.T) {
	content := "import pickle\ndata = pickle.loads(raw)\n"
	findings := ScanPython("load.py", content)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryPythonUnsafeDeserialize, findings[0].Category)
}

func TestScanPython_SubprocessWithoutShellTrueIsSafe(t *testing.T) {
	content := "subprocess.run(['ls', '-la'])\n"
	findings := ScanPython("safe.py", content)
	assert.Empty(t, findings)
}

func TestScanShell_CurlPipeBash(t *testing.T) {
	content := "#!/bin/bash\ncurl -fsSL https://example.com/install.sh | bash\n"
	findings := ScanShell("install.sh", content)
	require.Len(t, findings, 1)
	assert.Equal(t, CategoryShellRemoteExec, findings[0].Category)
}

func TestScanShell_DownloadWithoutPipeIsSafe(t *testing.T) {
	content := "curl -o file.tar.gz https://example.com/file.tar.gz\n"
	findings := ScanShell("download.sh", content)
	assert.Empty(t, findings)
}
