package chunk

import "fmt"

// Chunk IDs the scene walker dispatches on.
const (
	Main           uint16 = 0x4D4D
	MainVersion    uint16 = 0x0002
	Editor         uint16 = 0x3D3D
	Keyframer      uint16 = 0xB000
	MeshVersion    uint16 = 0x3D3E
	Material       uint16 = 0xAFFF
	MaterialName   uint16 = 0xA000
	TextureMap     uint16 = 0xA200
	MapFileName    uint16 = 0xA300
	HeaderSize            = 6
	minChunkLength        = HeaderSize
)

// Chunks that are known to exist in the format but are never interpreted.
const (
	MasterScale       uint16 = 0x0100
	ObjectBlock       uint16 = 0x4000
	TriMesh           uint16 = 0x4100
	VertexList        uint16 = 0x4110
	FaceList          uint16 = 0x4120
	FaceMaterial      uint16 = 0x4130
	MapCoords         uint16 = 0x4140
	SmoothGroups      uint16 = 0x4150
	LocalMatrix       uint16 = 0x4160
	Light             uint16 = 0x4600
	Camera            uint16 = 0x4700
	AmbientColor      uint16 = 0xA010
	DiffuseColor      uint16 = 0xA020
	SpecularColor     uint16 = 0xA030
	Shininess         uint16 = 0xA040
	ShininessStrength uint16 = 0xA041
	Transparency      uint16 = 0xA050
	TwoSided          uint16 = 0xA081
	Wireframe         uint16 = 0xA085
	Shading           uint16 = 0xA100
	SpecularMap       uint16 = 0xA204
	OpacityMap        uint16 = 0xA210
	ReflectionMap     uint16 = 0xA220
	BumpMap           uint16 = 0xA230
	TextureMap2       uint16 = 0xA33A
	MapTiling         uint16 = 0xA351
	MapBlur           uint16 = 0xA353
	MapUScale         uint16 = 0xA354
	MapVScale         uint16 = 0xA356
	MapUOffset        uint16 = 0xA358
	MapVOffset        uint16 = 0xA35A
	MapRotation       uint16 = 0xA35C
	KFHeader          uint16 = 0xB00A
	KFSegment         uint16 = 0xB008
	KFCurTime         uint16 = 0xB009
	KFObjectNode      uint16 = 0xB002
	KFNodeHeader      uint16 = 0xB010
	KFPivot           uint16 = 0xB013
	KFPosTrack        uint16 = 0xB020
	KFRotTrack        uint16 = 0xB021
	KFScaleTrack      uint16 = 0xB022
	KFNodeID          uint16 = 0xB030
	ColorF            uint16 = 0x0010
	Color24           uint16 = 0x0011
	LinColor24        uint16 = 0x0012
	LinColorF         uint16 = 0x0013
	PercentInt        uint16 = 0x0030
	PercentFloat      uint16 = 0x0031
)

var names = map[uint16]string{
	Main:              "main",
	MainVersion:       "version",
	Editor:            "editor",
	Keyframer:         "keyframer",
	MeshVersion:       "mesh_version",
	Material:          "material",
	MaterialName:      "material_name",
	TextureMap:        "texture_map",
	MapFileName:       "map_filename",
	MasterScale:       "master_scale",
	ObjectBlock:       "object",
	TriMesh:           "trimesh",
	VertexList:        "vertex_list",
	FaceList:          "face_list",
	FaceMaterial:      "face_material",
	MapCoords:         "map_coords",
	SmoothGroups:      "smooth_groups",
	LocalMatrix:       "local_matrix",
	Light:             "light",
	Camera:            "camera",
	AmbientColor:      "ambient_color",
	DiffuseColor:      "diffuse_color",
	SpecularColor:     "specular_color",
	Shininess:         "shininess",
	ShininessStrength: "shininess_strength",
	Transparency:      "transparency",
	TwoSided:          "two_sided",
	Wireframe:         "wireframe",
	Shading:           "shading",
	SpecularMap:       "specular_map",
	OpacityMap:        "opacity_map",
	ReflectionMap:     "reflection_map",
	BumpMap:           "bump_map",
	TextureMap2:       "texture_map_2",
	MapTiling:         "map_tiling",
	MapBlur:           "map_blur",
	MapUScale:         "map_u_scale",
	MapVScale:         "map_v_scale",
	MapUOffset:        "map_u_offset",
	MapVOffset:        "map_v_offset",
	MapRotation:       "map_rotation",
	KFHeader:          "kf_header",
	KFSegment:         "kf_segment",
	KFCurTime:         "kf_cur_time",
	KFObjectNode:      "kf_object_node",
	KFNodeHeader:      "kf_node_header",
	KFPivot:           "kf_pivot",
	KFPosTrack:        "kf_pos_track",
	KFRotTrack:        "kf_rot_track",
	KFScaleTrack:      "kf_scale_track",
	KFNodeID:          "kf_node_id",
	ColorF:            "color_f",
	Color24:           "color_24",
	LinColor24:        "lin_color_24",
	LinColorF:         "lin_color_f",
	PercentInt:        "percent_int",
	PercentFloat:      "percent_float",
}

// Name returns a readable name for a chunk ID, or its hex form when unknown.
func Name(id uint16) string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("0x%04x", id)
}

// Known reports whether id is in the known-chunk table.
func Known(id uint16) bool {
	_, ok := names[id]
	return ok
}
