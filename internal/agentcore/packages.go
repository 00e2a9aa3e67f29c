// Package agentcore holds small lookup tables shared by the step
// executor that don't belong to any single protocol or device package.
package agentcore

// appPackages maps a handful of well-known app names to their Android
// package identifiers, ported verbatim from mobile_agent.py's
// _get_package_name. A launch action naming an app outside this table
// passes its name straight through to the device's launch call, on the
// assumption the caller already supplied a package id.
var appPackages = map[string]string{
	"京东":  "com.jingdong.app.mall",
	"淘宝":  "com.taobao.taobao",
	"微信":  "com.tencent.mm",
	"支付宝": "com.eg.android.AlipayGphone",
	"抖音":  "com.ss.android.ugc.aweme",
	"快手":  "com.smile.gifmaker",
	"美团":  "com.sankuai.meituan",
	"拼多多": "com.xunmeng.pinduoduo",
	"微博":  "com.sina.weibo",
	"QQ":  "com.tencent.mobileqq",
}

// ResolvePackageName returns appName's known package id, or appName
// unchanged if it isn't in the table.
func ResolvePackageName(appName string) string {
	if pkg, ok := appPackages[appName]; ok {
		return pkg
	}
	return appName
}
