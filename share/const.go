package share

// VERSION 版本号
const VERSION = "0.3.0"

// BUILDNAME 制品名称
const BUILDNAME = "projview"

// PREFIX 环境变量前缀
const PREFIX = "PROJVIEW_"

// PATH 用户目录下的配置目录
const PATH = ".projview"

// CONFIG_FILE 配置文件名
const CONFIG_FILE = "config.yaml"

// EXPAND_STATE_KEY 展开状态在设置存储中的键
const EXPAND_STATE_KEY = "ProjectTree.ExpandData"

// SCAN_PROGRESS_MAX 扫描进度的总单位数
const SCAN_PROGRESS_MAX = 1000000
