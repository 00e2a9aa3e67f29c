package agentcore

import "testing"

func TestResolvePackageNameKnownApp(t *testing.T) {
	if got := ResolvePackageName("微信"); got != "com.tencent.mm" {
		t.Fatalf("got %q", got)
	}
}

func TestResolvePackageNamePassthrough(t *testing.T) {
	if got := ResolvePackageName("com.example.custom"); got != "com.example.custom" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
