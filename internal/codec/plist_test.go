package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simkit/internal/domain"
)

// Trimmed from real "listapps" output (XML form; the tool also emits the
// binary form, which the decoder handles identically).
const appListPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>com.example.demo</key>
	<dict>
		<key>ApplicationType</key>
		<string>User</string>
		<key>CFBundleDisplayName</key>
		<string>Demo</string>
		<key>CFBundleExecutable</key>
		<string>Demo</string>
		<key>CFBundleIdentifier</key>
		<string>com.example.demo</string>
		<key>CFBundleName</key>
		<string>Demo</string>
		<key>Path</key>
		<string>/containers/Bundle/Application/BBBB/Demo.app</string>
	</dict>
</dict>
</plist>`

func TestPropertyListDecodesAppList(t *testing.T) {
	apps, err := PropertyList[domain.AppList]()([]byte(appListPlist))
	require.NoError(t, err)

	require.Len(t, apps, 1)
	app := apps["com.example.demo"]
	assert.Equal(t, "com.example.demo", app.BundleIdentifier)
	assert.Equal(t, "Demo", app.DisplayName)
	assert.Equal(t, "User", app.ApplicationType)
}

func TestPropertyListMissingRequiredFieldFails(t *testing.T) {
	// Struct target without its required key: all-or-nothing decoding.
	input := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Demo</string>
</dict>
</plist>`

	_, err := PropertyList[domain.AppInfo]()([]byte(input))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDecode), "err = %v", err)
}

func TestPropertyListAppListMemberMissingIdentifierFails(t *testing.T) {
	// Map-shaped target: required tags are enforced on every entry, so a
	// single app record without CFBundleIdentifier rejects the whole list.
	input := `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>com.example.demo</key>
	<dict>
		<key>ApplicationType</key>
		<string>User</string>
		<key>CFBundleName</key>
		<string>Demo</string>
	</dict>
</dict>
</plist>`

	_, err := PropertyList[domain.AppList]()([]byte(input))
	require.Error(t, err)

	var decodeErr *domain.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "plist", decodeErr.Format)
	assert.True(t, errors.Is(err, domain.ErrDecode), "err = %v", err)
}

func TestPropertyListMalformedInputFails(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"not a plist", "no such device"},
		{"truncated xml", `<?xml version="1.0"?><plist><dict>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PropertyList[domain.AppList]()([]byte(tt.input))
			require.Error(t, err)

			var decodeErr *domain.DecodeError
			require.ErrorAs(t, err, &decodeErr)
			assert.Equal(t, "plist", decodeErr.Format)
		})
	}
}
