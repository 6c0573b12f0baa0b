package pathwalk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIgnoreMatcher_VCSAndBuildDirs(t *testing.T) {
	m := NewDefaultIgnoreMatcher()

	assert.True(t, m.IsIgnored(".git", true))
	assert.True(t, m.IsIgnored("node_modules", true))
	assert.True(t, m.IsIgnored("dist", true))
	assert.True(t, m.IsIgnored("build", true))
	assert.True(t, m.IsIgnored("vendor", true))
	assert.True(t, m.IsIgnored("__pycache__", true))
}

func TestDefaultIgnoreMatcher_Lockfiles(t *testing.T) {
	m := NewDefaultIgnoreMatcher()

	assert.True(t, m.IsIgnored("package-lock.json", false))
	assert.True(t, m.IsIgnored("go.sum", false))
	assert.True(t, m.IsIgnored("Cargo.lock", false))
}

func TestDefaultIgnoreMatcher_DoesNotIgnoreSecretLikeFiles(t *testing.T) {
	m := NewDefaultIgnoreMatcher()

	// A security scanner must inspect exactly the files a context-assembly
	// tool would hide from itself.
	assert.False(t, m.IsIgnored(".env", false))
	assert.False(t, m.IsIgnored("id_rsa.pem", false))
	assert.False(t, m.IsIgnored("my-secret-token.txt", false))
	assert.False(t, m.IsIgnored("db-credentials.json", false))
}

func TestDefaultIgnoreMatcher_DoesNotIgnoreOrdinaryCode(t *testing.T) {
	m := NewDefaultIgnoreMatcher()

	assert.False(t, m.IsIgnored("main.go", false))
	assert.False(t, m.IsIgnored("src/index.js", false))
}
