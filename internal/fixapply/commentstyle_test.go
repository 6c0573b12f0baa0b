package fixapply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleForPath_PrefixLanguages(t *testing.T) {
	assert.Equal(t, "#", StyleForPath("install.sh").Prefix)
	assert.Equal(t, "#", StyleForPath("config.yml").Prefix)
	assert.Equal(t, "//", StyleForPath("index.js").Prefix)
	assert.Equal(t, "//", StyleForPath("main.go").Prefix)
}

func TestStyleForPath_WrapLanguages(t *testing.T) {
	style := StyleForPath("README.md")
	assert.Equal(t, "<!--", style.WrapOpen)
	assert.Equal(t, "-->", style.WrapClose)
}

func TestStyleForPath_NoneForJSON(t *testing.T) {
	assert.True(t, StyleForPath("package.json").None)
}

func TestStyleForPath_UnknownExtensionIsNone(t *testing.T) {
	assert.True(t, StyleForPath("data.xyz").None)
}

func TestCommentStyle_AlreadyCommented(t *testing.T) {
	prefixStyle := CommentStyle{Prefix: "#"}
	assert.True(t, prefixStyle.AlreadyCommented("# already"))
	assert.False(t, prefixStyle.AlreadyCommented("not commented"))

	wrapStyle := CommentStyle{WrapOpen: "<!--", WrapClose: "-->"}
	assert.True(t, wrapStyle.AlreadyCommented("<!-- x -->"))
	assert.False(t, wrapStyle.AlreadyCommented("x"))
}

func TestCommentStyle_Apply(t *testing.T) {
	prefixStyle := CommentStyle{Prefix: "#"}
	assert.Equal(t, "  # content", prefixStyle.Apply("  ", "content"))

	wrapStyle := CommentStyle{WrapOpen: "<!--", WrapClose: "-->"}
	assert.Equal(t, "<!-- content -->", wrapStyle.Apply("", "content"))
}
