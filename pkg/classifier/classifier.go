package classifier

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/moyu-x/smart-organizer/internal"
)

// 已知格式表，类别 -> 扩展名列表
var knownFormats = map[string][]string{
	// 图片
	"JPG":  {".jpg", ".jpeg", ".jpe", ".jif", ".jfif"},
	"PNG":  {".png"},
	"GIF":  {".gif"},
	"RAW":  {".raw", ".arw", ".cr2", ".nrw", ".k25", ".dng"},
	"PSD":  {".psd", ".psb"},
	"AI":   {".ai"},
	"TIFF": {".tiff", ".tif"},
	"BMP":  {".bmp"},
	"HEIC": {".heic"},
	"SVG":  {".svg"},
	"WEBP": {".webp"},
	"ICO":  {".ico"},

	// 视频
	"MP4":  {".mp4", ".m4v", ".m4p"},
	"AVI":  {".avi"},
	"MOV":  {".mov", ".qt"},
	"WMV":  {".wmv"},
	"FLV":  {".flv", ".f4v", ".f4p", ".f4a", ".f4b"},
	"MKV":  {".mkv"},
	"WEBM": {".webm"},
	"3GP":  {".3gp", ".3g2"},
	"MPEG": {".mpeg", ".mpg", ".mpe", ".mpv"},

	// 音频
	"MP3":  {".mp3"},
	"WAV":  {".wav"},
	"FLAC": {".flac"},
	"M4A":  {".m4a"},
	"AAC":  {".aac"},
	"OGG":  {".ogg", ".oga"},
	"WMA":  {".wma"},
	"MIDI": {".midi", ".mid"},
	"AMR":  {".amr"},

	// 文档
	"PDF":  {".pdf"},
	"DOC":  {".doc", ".docx", ".docm"},
	"XLS":  {".xls", ".xlsx", ".xlsm"},
	"PPT":  {".ppt", ".pptx", ".pptm"},
	"TXT":  {".txt", ".text", ".md", ".markdown"},
	"RTF":  {".rtf"},
	"ODT":  {".odt"},
	"CSV":  {".csv"},
	"EPUB": {".epub"},
	"MOBI": {".mobi"},

	// 代码
	"PY":   {".py", ".pyw", ".pyc", ".pyo", ".pyd"},
	"JAVA": {".java", ".class", ".jar"},
	"JS":   {".js", ".jsx", ".mjs"},
	"HTML": {".html", ".htm", ".xhtml"},
	"CSS":  {".css", ".scss", ".sass"},
	"PHP":  {".php", ".phtml", ".php3", ".php4", ".php5"},
	"CPP":  {".cpp", ".cc", ".cxx", ".c++", ".hpp"},
	"C":    {".c", ".h"},
	"GO":   {".go"},
	"TS":   {".ts", ".tsx"},
	"SQL":  {".sql"},
	"R":    {".r"},

	// 设计与调色
	"CUBE":   {".cube"},
	"LUT":    {".lut"},
	"3DL":    {".3dl"},
	"ICC":    {".icc", ".icm"},
	"DCP":    {".dcp"},
	"XMP":    {".xmp"},
	"PRESET": {".lrtemplate"},
	"FIG":    {".fig"},
	"XD":     {".xd"},

	// 压缩包
	"ZIP": {".zip", ".zipx"},
	"RAR": {".rar"},
	"7Z":  {".7z"},
	"TAR": {".tar", ".gz", ".bz2", ".xz"},
	"ISO": {".iso"},

	// 可执行文件与安装包
	"EXE": {".exe", ".msi", ".msix"},
	"APP": {".app"},
	"DMG": {".dmg"},
	"APK": {".apk", ".aab"},
	"IPA": {".ipa"},

	// 开发配置
	"GIT":    {".git"},
	"CONFIG": {".config", ".conf", ".cfg", ".ini"},
	"ENV":    {".env"},
	"YAML":   {".yml", ".yaml"},
	"JSON":   {".json"},
	"XML":    {".xml"},
	"LOG":    {".log"},

	// 字体
	"TTF":  {".ttf"},
	"OTF":  {".otf"},
	"WOFF": {".woff", ".woff2"},

	// 3D 与 CAD
	"STL":   {".stl"},
	"OBJ":   {".obj"},
	"FBX":   {".fbx"},
	"BLEND": {".blend"},
	"3DS":   {".3ds"},

	// 数据库
	"DB":  {".db", ".sqlite", ".sqlite3"},
	"MDB": {".mdb", ".accdb"},

	// 游戏开发
	"UNITY": {".unity", ".prefab", ".asset"},
	"UE":    {".uasset", ".umap"},

	// 虚拟机镜像
	"VMDK": {".vmdk"},
	"VDI":  {".vdi"},
	"OVA":  {".ova"},

	// 加密货币
	"WALLET": {".wallet"},
	"DAT":    {".dat"},

	// 相机 RAW 与其他
	"COP": {".cop"},
	"COF": {".cof"},
	"CR3": {".cr3"},
	"RAF": {".raf"},
	"RW2": {".rw2"},

	// Adobe 工程文件
	"INDD":   {".indd"},
	"AEP":    {".aep"},
	"PRPROJ": {".prproj"},
}

// 扩展名反查表，小写扩展名 -> 类别
var extensionMap = buildExtensionMap()

func buildExtensionMap() map[string]string {
	m := make(map[string]string)
	for category, extensions := range knownFormats {
		for _, ext := range extensions {
			m[ext] = category
		}
	}
	return m
}

// MIME 主类型到类别的映射
var mimeCategories = map[string]string{
	"image": "Images",
	"video": "Videos",
	"audio": "Audio",
	"text":  "Documents",
}

// Resolver 类别解析器，将文件路径映射为目标类别标签
type Resolver struct {
	fs afero.Fs
}

func NewResolver(fs afero.Fs) *Resolver {
	return &Resolver{fs: fs}
}

// Resolve 按优先级解析文件的类别标签，先命中的规则生效:
//  1. 小写扩展名查已知格式表
//  2. 无扩展名时按文件名做 MIME 猜测
//  3. 仍未解析时读取文件头部做内容嗅探
//  4. 未知扩展名去掉点后大写
//
// 扩展名优先于内容：即使内容与扩展名不符，也按扩展名分类
func (r *Resolver) Resolve(path string) string {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	// 点开头的隐藏文件（如 .gitignore）和点结尾的文件名没有扩展名
	if ext == strings.ToLower(base) || ext == "." {
		ext = ""
	}

	if category, ok := extensionMap[ext]; ok {
		return category
	}

	if ext == "" {
		if category := categoryFromMIME(path); category != "" {
			return category
		}
		if category := r.sniffContent(path); category != "" {
			return category
		}
		return "No_Extension"
	}

	return strings.ToUpper(strings.TrimPrefix(ext, "."))
}

// categoryFromMIME 按文件名猜测 MIME 类型并映射到类别
// 猜测失败时返回空串，由调用方落入下一条规则
func categoryFromMIME(path string) string {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		return ""
	}

	primary, _, _ := strings.Cut(mimeType, "/")
	return mimeCategories[primary]
}

// sniffContent 读取文件前 512 字节做启发式判断:
// 出现 NUL 字节视为二进制，能按 UTF-8 解码视为文本
// 这只是启发式：头部之后才出现非 UTF-8 字节的文件会被误判为文本
func (r *Resolver) sniffContent(path string) string {
	file, err := r.fs.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	head := make([]byte, internal.SniffHeaderSize)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return ""
	}
	head = head[:n]

	if bytes.IndexByte(head, 0) >= 0 {
		return "Binaries"
	}

	if utf8.Valid(head) {
		return "Text"
	}

	return "Binary"
}
