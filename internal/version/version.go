// 包 version：构建信息，由 -ldflags "-X global-atlas/internal/version.Commit=<sha>" 注入
package version

// Commit：构建提交号；未注入时为 dev
var Commit = "dev"
